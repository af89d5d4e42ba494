package ocr

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Tencent calls the Tencent Cloud general OCR API. Every request carries a
// TC3-HMAC-SHA256 signature derived from the secret key, the request date and
// a hash of the payload.
type Tencent struct {
	secretID  string
	secretKey string
	region    string

	endpoint   string
	httpClient *http.Client

	// now is swapped in tests to make signatures reproducible.
	now func() time.Time
}

const (
	tencentService = "ocr"
	tencentVersion = "2018-11-19"
	tencentAction  = "GeneralBasicOCR"
)

// NewTencent creates a Tencent OCR client. An empty region defaults to
// ap-guangzhou.
func NewTencent(secretID, secretKey, region string) *Tencent {
	if region == "" {
		region = "ap-guangzhou"
	}
	return &Tencent{
		secretID:  secretID,
		secretKey: secretKey,
		region:    region,
		endpoint:  "ocr.tencentcloudapi.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

type tencentResponse struct {
	Response struct {
		Error *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error"`
		TextDetections []struct {
			DetectedText string `json:"DetectedText"`
		} `json:"TextDetections"`
	} `json:"Response"`
}

// Recognize submits the image and joins the detected text lines.
func (t *Tencent) Recognize(ctx context.Context, image []byte) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"ImageBase64": base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return "", &Error{Provider: "tencent", Message: "encode request", Err: err}
	}

	timestamp := t.now().Unix()
	authorization := t.sign(payload, timestamp)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Provider: "tencent", Message: "build request", Err: err}
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Host", t.endpoint)
	req.Header.Set("X-TC-Action", tencentAction)
	req.Header.Set("X-TC-Timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("X-TC-Version", tencentVersion)
	req.Header.Set("X-TC-Region", t.region)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", &Error{Provider: "tencent", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Provider: "tencent", Message: fmt.Sprintf("status %d: %s", resp.StatusCode, body)}
	}

	var result tencentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &Error{Provider: "tencent", Message: "malformed response", Err: err}
	}
	if result.Response.Error != nil {
		return "", &Error{Provider: "tencent", Message: fmt.Sprintf("%s: %s", result.Response.Error.Code, result.Response.Error.Message)}
	}

	lines := make([]string, 0, len(result.Response.TextDetections))
	for _, d := range result.Response.TextDetections {
		lines = append(lines, d.DetectedText)
	}
	return strings.Join(lines, "\n"), nil
}

// sign computes the TC3-HMAC-SHA256 Authorization header. The derivation is
// date key -> service key -> request signing key -> signature over the
// string-to-sign; identical payload and timestamp always yield the same
// signature.
func (t *Tencent) sign(payload []byte, timestamp int64) string {
	// Canonical request
	canonicalHeaders := "content-type:application/json\nhost:" + t.endpoint + "\n"
	signedHeaders := "content-type;host"
	hashedPayload := sha256Hex(payload)
	canonicalRequest := strings.Join([]string{
		http.MethodPost,
		"/",
		"",
		canonicalHeaders,
		signedHeaders,
		hashedPayload,
	}, "\n")

	// String to sign, scoped to the request date
	const algorithm = "TC3-HMAC-SHA256"
	date := time.Unix(timestamp, 0).UTC().Format("2006-01-02")
	credentialScope := date + "/" + tencentService + "/tc3_request"
	stringToSign := strings.Join([]string{
		algorithm,
		strconv.FormatInt(timestamp, 10),
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")

	// Multi-round key derivation
	secretDate := hmacSHA256([]byte("TC3"+t.secretKey), date)
	secretService := hmacSHA256(secretDate, tencentService)
	secretSigning := hmacSHA256(secretService, "tc3_request")
	signature := hex.EncodeToString(hmacSHA256(secretSigning, stringToSign))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm, t.secretID, credentialScope, signedHeaders, signature)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}
