package api

import (
	"fmt"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/core/rsa"
	"github.com/kochabx/rsalab/transport/http/response"
)

// encrypt godoc
// @Summary Encrypt a message with an explicit public key
// @Tags crypto
// @Accept json
// @Produce json
// @Param request body EncryptRequest true "message and public key"
// @Success 200 {object} response.Response{data=EncryptResponse}
// @Router /api/v1/crypto/encrypt [post]
func (h *Handler) encrypt(c *gin.Context) {
	var req EncryptRequest
	if !h.bind(c, &req) {
		return
	}
	n, err := h.parseInt("n", req.N)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	e, err := h.parseInt("e", req.E)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}

	op, err := h.svc.Encrypt(c.Request.Context(), req.Message, n, e)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	response.GinJSON(c, encryptResponse(req.Message, op))
}

// decrypt godoc
// @Summary Decrypt blocks with an explicit private key
// @Tags crypto
// @Accept json
// @Produce json
// @Param request body DecryptRequest true "cipher blocks and private key"
// @Success 200 {object} response.Response{data=DecryptResponse}
// @Router /api/v1/crypto/decrypt [post]
func (h *Handler) decrypt(c *gin.Context) {
	var req DecryptRequest
	if !h.bind(c, &req) {
		return
	}
	blocks, err := h.parseInts("encrypted_blocks", req.EncryptedBlocks)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	n, err := h.parseInt("n", req.N)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	d, err := h.parseInt("d", req.D)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}

	op, err := h.svc.Decrypt(c.Request.Context(), blocks, n, d)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	response.GinJSON(c, decryptResponse(op))
}

func (h *Handler) encryptWithStoredKeys(c *gin.Context) {
	var req EncryptStoredRequest
	if !h.bind(c, &req) {
		return
	}

	op, err := h.svc.EncryptWithStoredKeys(c.Request.Context(), req.Message)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	response.GinJSON(c, encryptResponse(req.Message, op))
}

func (h *Handler) decryptWithStoredKeys(c *gin.Context) {
	var req DecryptStoredRequest
	if !h.bind(c, &req) {
		return
	}
	blocks, err := h.parseInts("encrypted_blocks", req.EncryptedBlocks)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}

	op, err := h.svc.DecryptWithStoredKeys(c.Request.Context(), blocks)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	response.GinJSON(c, decryptResponse(op))
}

func encryptResponse(message string, op *rsa.Operation) EncryptResponse {
	resp := EncryptResponse{
		EncryptedBlocks: make([]string, len(op.Blocks)),
		BlockInfo:       make([]BlockInfo, len(op.Blocks)),
		TotalBlocks:     len(op.Blocks),
		MessageLength:   utf8.RuneCountInString(message),
	}
	for i, b := range op.Blocks {
		resp.EncryptedBlocks[i] = b.Cipher.String()
		resp.BlockInfo[i] = BlockInfo{
			BlockNumber:    b.Index,
			OriginalValue:  b.Plain.String(),
			EncryptedValue: b.Cipher.String(),
			OriginalHex:    fmt.Sprintf("%#x", b.Plain),
			EncryptedHex:   fmt.Sprintf("%#x", b.Cipher),
		}
	}
	return resp
}

func decryptResponse(op *rsa.Operation) DecryptResponse {
	return DecryptResponse{
		DecryptedMessage: op.Text,
		Success:          op.Success,
		BlockCount:       len(op.Blocks),
	}
}
