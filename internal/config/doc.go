// Package config manages application configuration for the Folio API.
//
// Configuration comes from environment variables. A .env file in the working
// directory is read first, but never overrides a variable that is already set.
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Environment Variables
//
//	HOST, PORT, ENV                 - listen address and mode (development, production, test)
//	SERVER_READ_TIMEOUT             - e.g. 15s
//	SERVER_WRITE_TIMEOUT            - e.g. 30s
//	CORS_ALLOWED_ORIGINS            - comma separated origins
//	SURREAL_HOST, SURREAL_PORT      - SurrealDB endpoint
//	SURREAL_USER, SURREAL_PASSWORD  - SurrealDB credentials
//	SURREAL_NAMESPACE, SURREAL_DATABASE
//	JWT_PRIVATE_KEY_PATH            - RSA private key (PEM); empty for an ephemeral key
//	JWT_PUBLIC_KEY_PATH             - RSA public key (PEM)
//	JWT_ISSUER, JWT_EXPIRATION_MINUTES
//	AUTH_COOKIE_NAME                - session cookie (default folio_token)
//	AUTH_COOKIE_SECURE              - set Secure on the session cookie
//	AUTH_RATE_LIMIT_PER_MINUTE      - login/register attempts per client
//	MEDIA_DIR, MEDIA_BASE_URL       - local upload root and its public prefix
//	MEDIA_MAX_BYTES                 - upload size limit
//	S3_BUCKET                       - when set, uploads go to S3
//	S3_REGION, S3_ENDPOINT, S3_PUBLIC_URL
//	S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY
//	LOG_LEVEL                       - debug, info, warn or error
package config
