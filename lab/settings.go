package lab

import (
	"math"
	"time"
)

// Settings bounds what callers may ask of the service.
type Settings struct {
	MinPrimeBitLength       int           `mapstructure:"min_prime_bit_length" default:"256" validate:"gte=2"`
	MaxPrimeBitLength       int           `mapstructure:"max_prime_bit_length" default:"2048" validate:"gtefield=MinPrimeBitLength"`
	MinRounds               int           `mapstructure:"min_rounds" default:"1" validate:"gte=1"`
	MaxRounds               int           `mapstructure:"max_rounds" default:"100" validate:"gtefield=MinRounds"`
	DefaultBitLength        int           `mapstructure:"default_bit_length" default:"512" validate:"byte_aligned,gtefield=MinPrimeBitLength,ltefield=MaxPrimeBitLength"`
	DefaultRounds           int           `mapstructure:"default_rounds" default:"10" validate:"gte=1"`
	MaxMessageLength        int           `mapstructure:"max_message_length" default:"10000" validate:"gte=1"`
	PrimeGenerationTimeout  time.Duration `mapstructure:"prime_generation_timeout" default:"300s" validate:"gt=0"`
	MaxConcurrentOperations int           `mapstructure:"max_concurrent_operations" default:"10" validate:"gte=1"`
	WorkerPoolSize          int           `mapstructure:"worker_pool_size" default:"16" validate:"gtefield=MaxConcurrentOperations"`
	SelfCheckSpec           string        `mapstructure:"self_check_spec" default:"@every 10m" validate:"required"`
}

// MaxOperandBits caps moduli, exponents and cipher blocks supplied by callers:
// a modulus is the product of two primes of at most MaxPrimeBitLength bits.
func (s Settings) MaxOperandBits() int {
	return 2 * s.MaxPrimeBitLength
}

// MaxOperandDigits is the decimal width of the largest MaxOperandBits value.
func (s Settings) MaxOperandDigits() int {
	return int(float64(s.MaxOperandBits())*math.Log10(2)) + 1
}
