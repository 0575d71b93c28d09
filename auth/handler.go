package auth

import (
	"errors"
	"net/http"

	"github.com/izaqyos/toyMCP/endpoint"
	"github.com/izaqyos/toyMCP/logger"
)

// LoginParams is the login request body.
type LoginParams struct {
	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `body:"credentials"`
}

// LoginResult is the success response body.
type LoginResult struct {
	Message string   `json:"message"`
	User    Identity `json:"user"`
	Token   string   `json:"token"`
}

// LoginEndpoint returns the endpoint function serving logins.
// Pass to endpoint.Handler() to create an http.Handler.
//
// Success is 200 with the identity and a bearer token; any credential
// failure is 401 with FailureMessage and an otherwise identical body,
// so responses cannot be used to probe which usernames exist.
func LoginEndpoint(verifier *Verifier, log logger.Logger) endpoint.EndpointFunc[LoginParams] {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return func(w http.ResponseWriter, r *http.Request, params LoginParams) (endpoint.Renderer, error) {
		if r.Method != http.MethodPost {
			return nil, endpoint.Error(http.StatusMethodNotAllowed, "login requires POST method", nil)
		}

		identity, minted, err := verifier.Authenticate(r.Context(), params.Credentials.Username, params.Credentials.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			log.WithFields(map[string]interface{}{"username": params.Credentials.Username}).Info("login rejected")
			return &endpoint.JSONRenderer{
				Status: http.StatusUnauthorized,
				Value:  map[string]string{"message": FailureMessage},
			}, nil
		}
		if err != nil {
			return nil, endpoint.Error(http.StatusInternalServerError, "login failed", err)
		}

		log.WithFields(map[string]interface{}{"username": identity.Username}).Info("login succeeded")
		return &endpoint.JSONRenderer{Value: LoginResult{
			Message: "Login successful",
			User:    identity,
			Token:   minted,
		}}, nil
	}
}
