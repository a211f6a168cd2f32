// Package jwt issues and verifies the RS256 access tokens used by the Folio API.
//
// Tokens carry the user id, email and role. The role is a hint only: the API
// reloads the user on every request, so a demoted admin loses access at once.
//
//	svc, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    Issuer:         "folio",
//	    ExpirationMins: 60,
//	})
//
//	token, err := svc.Sign(jwt.Claims{UserID: "user:abc", Role: "admin"})
//	claims, err := svc.Validate(token)
package jwt
