package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// SignaturePrefix prefijo que Bling antepone al digest en X-Bling-Signature-256.
const SignaturePrefix = "sha256="

// Sign calcula la firma HMAC-SHA256 (hex) del cuerpo con el secreto, con prefijo sha256=.
func Sign(rawBody []byte, secret string) string {
	return SignaturePrefix + hex.EncodeToString(computeMAC(rawBody, secret))
}

// ValidateSignature verifica la firma declarada contra el cuerpo crudo, sin re-serializarlo.
// Acepta "sha256=<hex>", hex sin prefijo o base64 (estándar o URL). Nunca falla: devuelve false
// ante secreto vacío, firma vacía o codificación irreconocible.
func ValidateSignature(rawBody []byte, claimed, secret string) bool {
	if secret == "" {
		return false
	}
	claimed = strings.TrimSpace(claimed)
	if len(claimed) >= len(SignaturePrefix) && strings.EqualFold(claimed[:len(SignaturePrefix)], SignaturePrefix) {
		claimed = claimed[len(SignaturePrefix):]
	}
	if claimed == "" {
		return false
	}

	got, ok := decodeDigest(claimed)
	if !ok {
		return false
	}
	return hmac.Equal(got, computeMAC(rawBody, secret))
}

func computeMAC(rawBody []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return mac.Sum(nil)
}

// decodeDigest intenta hex y luego base64; solo se aceptan digests de 32 bytes.
func decodeDigest(s string) ([]byte, bool) {
	if len(s) == hex.EncodedLen(sha256.Size) {
		if b, err := hex.DecodeString(s); err == nil {
			return b, true
		}
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(s); err == nil && len(b) == sha256.Size {
			return b, true
		}
	}
	return nil, false
}
