package nfc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedNDEF = errors.New("malformed ndef message")

const (
	flagMB = 0x80
	flagME = 0x40
	flagCF = 0x20
	flagSR = 0x10
	flagIL = 0x08

	tnfEmpty       = 0x00
	tnfWellKnown   = 0x01
	tnfAbsoluteURI = 0x03
)

// Tabla de abreviaturas del URI record type (NFC Forum RTD URI), el índice es el código.
var uriPrefixes = [...]string{
	"",
	"http://www.",
	"https://www.",
	"http://",
	"https://",
	"tel:",
	"mailto:",
	"ftp://anonymous:anonymous@",
	"ftp://ftp.",
	"ftps://",
	"sftp://",
	"smb://",
	"nfs://",
	"ftp://",
	"dav://",
	"news:",
	"telnet://",
	"imap:",
	"rtsp://",
	"urn:",
	"pop:",
	"sip:",
	"sips:",
	"tftp:",
	"btspp://",
	"btl2cap://",
	"btgoep://",
	"tcpobex://",
	"irdaobex://",
	"file://",
	"urn:epc:id:",
	"urn:epc:tag:",
	"urn:epc:pat:",
	"urn:epc:raw:",
	"urn:epc:",
	"urn:nfc:",
}

// abbreviate elige el prefijo más largo que matchea.
func abbreviate(uri string) (byte, string) {
	code, best := 0, 0
	for i, p := range uriPrefixes {
		if len(p) > best && strings.HasPrefix(uri, p) {
			code, best = i, len(p)
		}
	}
	return byte(code), uri[best:]
}

// EncodeURI arma un mensaje NDEF de un solo record URI (TNF well-known, tipo "U").
// Usa short record cuando el payload entra en 255 bytes.
func EncodeURI(uri string) ([]byte, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, errors.New("uri required")
	}
	code, rest := abbreviate(uri)
	payload := append([]byte{code}, rest...)

	header := byte(flagMB | flagME | tnfWellKnown)
	out := make([]byte, 0, len(payload)+7)
	if len(payload) <= 0xFF {
		out = append(out, header|flagSR, 1, byte(len(payload)))
	} else {
		out = append(out, header, 1)
		out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
	}
	out = append(out, 'U')
	return append(out, payload...), nil
}

// Record es un record NDEF ya parseado.
type Record struct {
	TNF     byte
	Type    []byte
	ID      []byte
	Payload []byte
}

// URI devuelve la URI del record si es de tipo URI (well-known "U" o absolute URI).
func (rec Record) URI() (string, bool) {
	switch {
	case rec.TNF == tnfWellKnown && string(rec.Type) == "U":
		if len(rec.Payload) == 0 {
			return "", false
		}
		code := int(rec.Payload[0])
		prefix := ""
		if code < len(uriPrefixes) {
			prefix = uriPrefixes[code]
		}
		return prefix + string(rec.Payload[1:]), true
	case rec.TNF == tnfAbsoluteURI:
		return string(rec.Type), true
	}
	return "", false
}

// ParseMessage recorre los records hasta el flag ME. Records chunked no se soportan.
func ParseMessage(msg []byte) ([]Record, error) {
	var out []Record
	for i := 0; i < len(msg); {
		h := msg[i]
		i++
		if h&flagCF != 0 {
			return nil, fmt.Errorf("%w: chunked records not supported", ErrMalformedNDEF)
		}

		need := 1 + 1
		if h&flagSR == 0 {
			need = 1 + 4
		}
		if i+need > len(msg) {
			return nil, fmt.Errorf("%w: truncated header", ErrMalformedNDEF)
		}
		typeLen := int(msg[i])
		i++
		var payloadLen int
		if h&flagSR != 0 {
			payloadLen = int(msg[i])
			i++
		} else {
			payloadLen = int(binary.BigEndian.Uint32(msg[i : i+4]))
			i += 4
		}
		idLen := 0
		if h&flagIL != 0 {
			if i >= len(msg) {
				return nil, fmt.Errorf("%w: truncated id length", ErrMalformedNDEF)
			}
			idLen = int(msg[i])
			i++
		}
		if payloadLen < 0 || i+typeLen+idLen+payloadLen > len(msg) {
			return nil, fmt.Errorf("%w: truncated record", ErrMalformedNDEF)
		}

		rec := Record{TNF: h & 0x07}
		rec.Type = msg[i : i+typeLen]
		i += typeLen
		rec.ID = msg[i : i+idLen]
		i += idLen
		rec.Payload = msg[i : i+payloadLen]
		i += payloadLen

		if rec.TNF != tnfEmpty {
			out = append(out, rec)
		}
		if h&flagME != 0 {
			break
		}
	}
	return out, nil
}

// DecodeURIs devuelve las URIs contenidas en un mensaje leído del tag.
func DecodeURIs(msg []byte) ([]string, error) {
	recs, err := ParseMessage(msg)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, r := range recs {
		if u, ok := r.URI(); ok {
			out = append(out, u)
		}
	}
	return out, nil
}
