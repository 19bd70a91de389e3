package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/lab"
	"github.com/kochabx/rsalab/transport/http/response"
)

// generateKeys godoc
// @Summary Derive a key pair from the stored primes
// @Tags keys
// @Produce json
// @Success 200 {object} response.Response{data=KeysResponse}
// @Router /api/v1/keys/generate [post]
func (h *Handler) generateKeys(c *gin.Context) {
	kp, err := h.svc.GenerateKeys(c.Request.Context())
	if err != nil {
		response.GinJSONE(c, err)
		return
	}

	n, e, d := kp.N().String(), kp.E().String(), kp.D().String()
	response.GinJSON(c, KeysResponse{
		PublicKey:   PublicKey{N: n, E: e},
		PrivateKey:  PrivateKey{N: n, D: d},
		Parameters:  KeyParameters{N: n, PhiN: kp.Phi().String(), E: e, D: d},
		KeyStrength: lab.KeyStrength(kp.N().BitLen()),
	})
}

// currentKeys returns the public half only.
func (h *Handler) currentKeys(c *gin.Context) {
	kp := h.svc.Session().KeyPair()
	if kp == nil {
		response.GinJSON(c, KeysStatusResponse{Status: "no_keys", Message: "No keys generated"})
		return
	}

	info := kp.Info()
	response.GinJSON(c, KeysStatusResponse{
		Status:    "keys_available",
		PublicKey: &PublicKey{N: info.N.String(), E: info.E.String()},
		KeyInfo: &KeyInfo{
			NBitLength:  info.NBitLength,
			IsValid:     info.Valid,
			KeyStrength: lab.KeyStrength(info.NBitLength),
		},
	})
}

func (h *Handler) validateKeys(c *gin.Context) {
	ok, err := h.svc.ValidateKeys(c.Request.Context())
	if err != nil {
		response.GinJSONE(c, err)
		return
	}

	msg := "Keys are valid"
	if !ok {
		msg = "Keys failed validation"
	}
	response.GinJSON(c, ValidateKeysResponse{IsValid: ok, Message: msg})
}
