package client

import (
	"net/http"
)

// Credentials are passed explicitly to the client. They are
// evaluated for every request, so an updated token is used
// by subsequent calls.
type Credentials interface {
	Token() string
}

type BearerToken string

func (t BearerToken) Token() string {
	return string(t)
}

var NoCredentials = BearerToken("")

func authorize(req *http.Request, creds Credentials) {
	if creds == nil {
		return
	}
	if t := creds.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
}
