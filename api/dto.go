package api

// Large integers travel as decimal strings.

type GeneratePrimesRequest struct {
	BitLength         int `json:"bit_length" validate:"omitempty,byte_aligned"`
	MillerRabinRounds int `json:"miller_rabin_rounds" validate:"omitempty,gte=1"`
}

type GeneratePrimesResponse struct {
	P                       string  `json:"p"`
	Q                       string  `json:"q"`
	GenerationTime          float64 `json:"generation_time"`
	BitLength               int     `json:"bit_length"`
	MillerRabinRounds       int     `json:"miller_rabin_rounds"`
	Candidates              int     `json:"candidates"`
	ErrorProbability        float64 `json:"error_probability"`
	EstimatedGenerationTime float64 `json:"estimated_generation_time"`
}

type PrimesStatusResponse struct {
	Status            string  `json:"status"`
	Message           string  `json:"message,omitempty"`
	BitLength         int     `json:"bit_length,omitempty"`
	GenerationTime    float64 `json:"generation_time,omitempty"`
	MillerRabinRounds int     `json:"miller_rabin_rounds,omitempty"`
	PBitLength        int     `json:"p_bit_length,omitempty"`
	QBitLength        int     `json:"q_bit_length,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PublicKey struct {
	N string `json:"n"`
	E string `json:"e"`
}

type PrivateKey struct {
	N string `json:"n"`
	D string `json:"d"`
}

type KeyParameters struct {
	N    string `json:"n"`
	PhiN string `json:"phi_n"`
	E    string `json:"e"`
	D    string `json:"d"`
}

type KeysResponse struct {
	PublicKey   PublicKey     `json:"public_key"`
	PrivateKey  PrivateKey    `json:"private_key"`
	Parameters  KeyParameters `json:"parameters"`
	KeyStrength string        `json:"key_strength"`
}

type KeyInfo struct {
	NBitLength  int    `json:"n_bit_length"`
	IsValid     bool   `json:"is_valid"`
	KeyStrength string `json:"key_strength"`
}

type KeysStatusResponse struct {
	Status    string     `json:"status"`
	Message   string     `json:"message,omitempty"`
	PublicKey *PublicKey `json:"public_key,omitempty"`
	KeyInfo   *KeyInfo   `json:"key_info,omitempty"`
}

type ValidateKeysResponse struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

type EncryptRequest struct {
	Message string `json:"message" validate:"required"`
	N       string `json:"n" validate:"required,numeric"`
	E       string `json:"e" validate:"required,numeric"`
}

type EncryptStoredRequest struct {
	Message string `json:"message" validate:"required"`
}

type BlockInfo struct {
	BlockNumber    int    `json:"block_number"`
	OriginalValue  string `json:"original_value"`
	EncryptedValue string `json:"encrypted_value"`
	OriginalHex    string `json:"original_hex"`
	EncryptedHex   string `json:"encrypted_hex"`
}

type EncryptResponse struct {
	EncryptedBlocks []string    `json:"encrypted_blocks"`
	BlockInfo       []BlockInfo `json:"block_info"`
	TotalBlocks     int         `json:"total_blocks"`
	MessageLength   int         `json:"message_length"`
}

type DecryptRequest struct {
	EncryptedBlocks []string `json:"encrypted_blocks" validate:"required,min=1,dive,numeric"`
	N               string   `json:"n" validate:"required,numeric"`
	D               string   `json:"d" validate:"required,numeric"`
}

type DecryptStoredRequest struct {
	EncryptedBlocks []string `json:"encrypted_blocks" validate:"required,min=1,dive,numeric"`
}

type DecryptResponse struct {
	DecryptedMessage string `json:"decrypted_message"`
	Success          bool   `json:"success"`
	BlockCount       int    `json:"block_count"`
}
