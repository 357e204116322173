package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "stipendia_access_token"
)
