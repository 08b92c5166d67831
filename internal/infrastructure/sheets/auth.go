package sheets

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
)

const (
	spreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"
	jwtBearerGrant    = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// Credentials is the service-account key file Google issues for API access.
type Credentials struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`

	key *rsa.PrivateKey
}

// ParseCredentials validates the credentials blob up front so a bad key fails
// at startup instead of on the first store call.
func ParseCredentials(raw string) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("%w: invalid service account JSON: %v", pkgerrors.ErrAuth, err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" || creds.TokenURI == "" {
		return nil, fmt.Errorf("%w: service account JSON is missing required fields", pkgerrors.ErrAuth)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key: %v", pkgerrors.ErrAuth, err)
	}
	creds.key = key
	return &creds, nil
}

// token mints a fresh access token via a signed RS256 assertion. Tokens are
// deliberately not pooled: each store call pays the auth round trip, the same
// trade-off the sheet's own write-rate limits already impose.
func (c *Credentials) token(ctx context.Context, client *http.Client) (string, error) {
	now := time.Now()
	assertion := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   c.ClientEmail,
		"scope": spreadsheetsScope,
		"aud":   c.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := assertion.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign assertion: %v", pkgerrors.ErrAuth, err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {signed},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", pkgerrors.ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request failed: %v", pkgerrors.ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", pkgerrors.ErrAuth, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: invalid token response: %v", pkgerrors.ErrAuth, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned no access token", pkgerrors.ErrAuth)
	}
	return body.AccessToken, nil
}
