package plantuml

import (
	"bytes"
	"compress/flate"
	"strings"
)

// encodeAlphabet is the 64-character alphabet the PlantUML server expects
// in URL tokens. It is not the standard base64 alphabet.
const encodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// Encode compresses text with raw DEFLATE and transcodes the result into
// the PlantUML token alphabet, producing the compact URL-safe token the
// rendering service decodes back into diagram text.
func Encode(text string) string {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	_, _ = w.Write([]byte(text))
	_ = w.Close()
	return encode64(buf.Bytes())
}

// encode64 packs each group of three bytes into four alphabet characters,
// zero-padding the final group.
func encode64(data []byte) string {
	var sb strings.Builder
	sb.Grow((len(data) + 2) / 3 * 4)
	for i := 0; i < len(data); i += 3 {
		var b2, b3 byte
		b1 := data[i]
		if i+1 < len(data) {
			b2 = data[i+1]
		}
		if i+2 < len(data) {
			b3 = data[i+2]
		}
		sb.WriteByte(encodeAlphabet[b1>>2])
		sb.WriteByte(encodeAlphabet[((b1&0x03)<<4)|(b2>>4)])
		sb.WriteByte(encodeAlphabet[((b2&0x0F)<<2)|(b3>>6)])
		sb.WriteByte(encodeAlphabet[b3&0x3F])
	}
	return sb.String()
}
