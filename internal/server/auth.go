package server

import (
	"net/http"

	"stipendia/internal"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type loginInput struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {

	var input loginInput
	if err := s.decodeRequest(r, &input); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid login payload"))
		return
	}

	authInput := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: cognitotypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": input.Email,
			"PASSWORD": input.Password,
		},
	}

	resp, err := s.cognitoClient.InitiateAuth(r.Context(), authInput)
	if err != nil {
		// NotAuthorizedException, UserNotConfirmedException, etc.
		s.writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		s.writeJSON(w, http.StatusUnauthorized, errorBody("login failed"))
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.writeJSON(w, http.StatusInternalServerError, errorBody("login failed"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})

	s.writeJSON(w, http.StatusOK, map[string]any{
		"expiresIn": expiresIn,
	})
}
