package common

// AuthorizationHeaderName carries the bearer access token on protected calls.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// IdempotencyKeyHeaderName lets a client pass its checkout id out of band.
const IdempotencyKeyHeaderName = "Idempotency-Key"

// MaxCarImages is the upper bound on images attached to a single car.
const MaxCarImages = 10
