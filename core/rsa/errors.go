package rsa

import "github.com/kochabx/rsalab/errors"

var (
	ErrModularInverseNotExist = errors.Internal("rsa: modular inverse does not exist")
	ErrKeyValidationFailure   = errors.Internal("rsa: key validation failed")
	ErrBlockOverflow          = errors.BadRequest("rsa: block value out of range for modulus")
	ErrDecodeUTF8             = errors.BadRequest("rsa: decoded blocks are not valid utf-8")
	ErrInvalidKey             = errors.BadRequest("rsa: invalid key")
)
