package paapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	service   = "ProductAdvertisingAPI"
	algorithm = "AWS4-HMAC-SHA256"

	signedHeaders = "content-type;host;x-amz-date;x-amz-target"
	contentType   = "application/json; charset=utf-8"
	amzTarget     = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems"

	timestampLayout = "20060102T150405Z"
	dateLayout      = "20060102"
)

// signedHeaderSet holds the request headers produced by the AWS Signature
// Version 4 process for a PA-API POST.
type signedHeaderSet struct {
	ContentType   string
	Authorization string
	AmzDate       string
	AmzTarget     string
}

// sign computes the SigV4 headers for a POST of payload to host+uri at the
// given instant. The canonical request covers exactly the four headers PA-API
// requires: content-type, host, x-amz-date and x-amz-target.
func sign(host, uri string, payload []byte, accessKey, secretKey, region string, now time.Time) signedHeaderSet {
	timestamp := now.UTC().Format(timestampLayout)
	date := now.UTC().Format(dateLayout)

	canonicalRequest := canonicalRequest(host, uri, payload, timestamp)

	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", date, region, service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		algorithm, timestamp, credentialScope, hashHex([]byte(canonicalRequest)))

	// Four-part key chain: date -> region -> service -> signing key.
	kDate := hmacSHA256([]byte("AWS4"+secretKey), date)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	kSigning := hmacSHA256(kService, "aws4_request")
	signature := hex.EncodeToString(hmacSHA256(kSigning, stringToSign))

	authorization := fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm, accessKey, credentialScope, signedHeaders, signature)

	return signedHeaderSet{
		ContentType:   contentType,
		Authorization: authorization,
		AmzDate:       timestamp,
		AmzTarget:     amzTarget,
	}
}

func canonicalRequest(host, uri string, payload []byte, timestamp string) string {
	canonicalHeaders := fmt.Sprintf("content-type:%s\nhost:%s\nx-amz-date:%s\nx-amz-target:%s\n",
		contentType, host, timestamp, amzTarget)

	return fmt.Sprintf("POST\n%s\n\n%s\n%s\n%s",
		uri, canonicalHeaders, signedHeaders, hashHex(payload))
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
