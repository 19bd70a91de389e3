package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/core/prime"
	"github.com/kochabx/rsalab/lab"
	"github.com/kochabx/rsalab/transport/http/response"
)

// generatePrimes godoc
// @Summary Generate a prime pair
// @Tags primes
// @Accept json
// @Produce json
// @Param request body GeneratePrimesRequest false "bit length and Miller-Rabin rounds"
// @Success 200 {object} response.Response{data=GeneratePrimesResponse}
// @Router /api/v1/primes/generate [post]
func (h *Handler) generatePrimes(c *gin.Context) {
	var req GeneratePrimesRequest
	if !h.bind(c, &req) {
		return
	}

	pair, err := h.svc.GeneratePrimes(c.Request.Context(), req.BitLength, req.MillerRabinRounds)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}

	response.GinJSON(c, GeneratePrimesResponse{
		P:                       pair.P().String(),
		Q:                       pair.Q().String(),
		GenerationTime:          pair.Elapsed().Seconds(),
		BitLength:               pair.BitLength(),
		MillerRabinRounds:       pair.Rounds(),
		Candidates:              pair.Candidates(),
		ErrorProbability:        prime.ErrorProbability(pair.Rounds()),
		EstimatedGenerationTime: lab.EstimateGenerationTime(pair.BitLength()).Seconds(),
	})
}

// currentPrimes reports the stored pair without revealing the primes.
func (h *Handler) currentPrimes(c *gin.Context) {
	pair := h.svc.Session().Pair()
	if pair == nil {
		response.GinJSON(c, PrimesStatusResponse{Status: "no_primes", Message: "No primes generated"})
		return
	}

	response.GinJSON(c, PrimesStatusResponse{
		Status:            "primes_available",
		BitLength:         pair.BitLength(),
		GenerationTime:    pair.Elapsed().Seconds(),
		MillerRabinRounds: pair.Rounds(),
		PBitLength:        pair.P().BitLen(),
		QBitLength:        pair.Q().BitLen(),
	})
}

func (h *Handler) clearPrimes(c *gin.Context) {
	h.svc.ClearPrimes()
	response.GinJSON(c, MessageResponse{Message: "Primes and keypairs cleared"})
}
