package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GeneratePixQR génère un QR PIX (BR Code EMV) en base64 prêt à mettre dans
// <img src="...">.
func GeneratePixQR(pixKey, merchantName, merchantCity, txid string, amount float64) (string, error) {
	payload := buildPixPayload(pixKey, merchantName, merchantCity, txid, amount)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// buildPixPayload assemble le payload EMV du BR Code (champs TLV à deux
// chiffres + CRC16 final).
func buildPixPayload(pixKey, merchantName, merchantCity, txid string, amount float64) string {
	merchantAccount := emvField("00", "br.gov.bcb.pix") + emvField("01", pixKey)

	payload := emvField("00", "01") + // Payload Format Indicator
		emvField("26", merchantAccount) + // Merchant Account Information
		emvField("52", "0000") + // Merchant Category Code
		emvField("53", "986") + // BRL
		emvField("54", fmt.Sprintf("%.2f", amount)) +
		emvField("58", "BR") +
		emvField("59", merchantName) +
		emvField("60", merchantCity) +
		emvField("62", emvField("05", txid))

	// Le CRC couvre le payload y compris son propre tag+longueur
	payload += "6304"
	return payload + fmt.Sprintf("%04X", crc16CCITT(payload))
}

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16CCITT - CRC-16/CCITT-FALSE (polynôme 0x1021, init 0xFFFF), tel
// qu'exigé par la spécification BR Code.
func crc16CCITT(data string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
