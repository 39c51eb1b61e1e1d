// Package tsa solicita sellos de tiempo RFC 3161 para los artefactos
// publicados: construye la consulta DER (.tsq) y obtiene la respuesta
// de la autoridad de sellado (.tsr). Equivale a
// "openssl ts -query -no_nonce -sha512 -cert" más el POST HTTP.
package tsa

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OID del algoritmo de resumen SHA-512 (2.16.840.1.101.3.4.2.3).
var oidSHA512 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 3}

const contentTypeQuery = "application/timestamp-query"

// Estructuras DER de RFC 3161 §2.4.1 (sin reqPolicy ni nonce).
type messageImprint struct {
	HashAlgorithm pkix.AlgorithmIdentifier
	HashedMessage []byte
}

type timeStampReq struct {
	Version        int
	MessageImprint messageImprint
	CertReq        bool `asn1:"optional"`
}

// Client habla con una autoridad de sellado de tiempo.
type Client struct {
	url  string
	http *http.Client
}

// NewClient construye el cliente; url es el endpoint de la TSA.
func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// BuildQuery construye la consulta TimeStampReq DER sobre el resumen
// SHA-512 de data, sin nonce y solicitando el certificado de la TSA.
func (c *Client) BuildQuery(data []byte) ([]byte, error) {
	sum := sha512.Sum512(data)
	req := timeStampReq{
		Version: 1,
		MessageImprint: messageImprint{
			HashAlgorithm: pkix.AlgorithmIdentifier{
				Algorithm:  oidSHA512,
				Parameters: asn1.NullRawValue,
			},
			HashedMessage: sum[:],
		},
		CertReq: true,
	}
	der, err := asn1.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("serializar TimeStampReq: %w", err)
	}
	return der, nil
}

// Fetch envía la consulta a la TSA y devuelve la respuesta cruda
// (TimeStampResp DER). Sin reintentos: un fallo termina la ejecución.
func (c *Client) Fetch(ctx context.Context, query []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("preparar petición TSA: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeQuery)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TSA %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TSA %s: estado %s", c.url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("leer respuesta TSA: %w", err)
	}
	return body, nil
}
