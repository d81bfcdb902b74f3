/*
Package authsdk is a Go client for the mgapi authentication service.

# SDKClient vs Session

SDKClient covers the public endpoints and logs users in. Login returns a
Session that carries the issued token pair and sends the access token as a
bearer credential on every call.

	client := authsdk.NewSDKClient("https://api.example.com")

	health, err := client.GetLiveness(ctx)

	session, err := client.Login(ctx, "sp", "1234")
	me, err := session.Me(ctx)

Admin sessions may also look up other users:

	user, err := session.GetUser(ctx, userID)

# Errors

Every non-2xx response is returned as an *APIError carrying the service's
error code. Compare against the predefined values with errors.Is:

	if errors.Is(err, authsdk.ErrTokenExpired) {
		// log in again
	}

Tokens are not refreshed automatically; the service has no refresh
endpoint, so an expired access token means logging in again.
*/
package authsdk
