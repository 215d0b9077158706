package docs

// Each instance is registered at init so the http-swagger handler of any
// binary that imports this package can find it by name.
var (
	UsersSpec = register(Users,
		"Shopgate Credential Store API",
		"Owns user records and password hashes. Only the token issuer calls /users/verify.",
		`        "/users": {
            "post": {"tags": ["Users"], "summary": "Register a user", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "username"}, "400": {"description": "invalid_request"}, "409": {"description": "user_exists"}}}
        },
        "/users/verify": {
            "post": {"tags": ["Users"], "summary": "Verify a username and password", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "valid"}, "400": {"description": "valid=false, invalid_request"}}}
        },
        "/users/{username}": {
            "get": {"tags": ["Users"], "summary": "Look up a user", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {"200": {"description": "id, username"}, "404": {"description": "not_found"}}}
        },`)

	AuthSpec = register(Auth,
		"Shopgate Token Issuer API",
		"Issues HS256 bearer tokens after a credential check and verifies them for other services.",
		`        "/auth/login": {
            "post": {"tags": ["Auth"], "summary": "Log in", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "access_token, token_type, expires_in, username"}, "400": {"description": "invalid_request"}, "401": {"description": "invalid_credentials"}, "429": {"description": "rate_limit_exceeded"}, "503": {"description": "upstream_unavailable"}}}
        },
        "/auth/verify": {
            "post": {"tags": ["Auth"], "summary": "Verify a token", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "username, valid"}, "400": {"description": "invalid_request"}, "401": {"description": "token expired or token invalid"}}}
        },`)

	OrdersSpec = register(Orders,
		"Shopgate Orders API",
		"Article catalog and purchases. Every route relays the bearer token to the issuer.",
		`        "/orders/articles": {
            "get": {"tags": ["Orders"], "summary": "List articles", "security": [{"BearerAuth": []}], "produces": ["application/json"],
                "responses": {"200": {"description": "articles"}, "401": {"description": "invalid_token"}}}
        },
        "/orders/{username}/purchases": {
            "get": {"tags": ["Orders"], "summary": "List purchases", "security": [{"BearerAuth": []}], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {"200": {"description": "user, purchases"}, "401": {"description": "invalid_token"}, "403": {"description": "forbidden"}}}
        },
        "/orders/{username}/buy": {
            "post": {"tags": ["Orders"], "summary": "Buy an article", "security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {"201": {"description": "message, article, user"}, "400": {"description": "invalid_request"}, "401": {"description": "invalid_token"}, "403": {"description": "forbidden"}, "404": {"description": "not_found"}}}
        },`)

	GatewaySpec = register(Gateway,
		"Shopgate Gateway API",
		"Browser facing JSON API. Identity is carried by the shopgate_session cookie.",
		`        "/login": {
            "post": {"tags": ["Gateway"], "summary": "Log in and start a session", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "username"}, "401": {"description": "invalid_credentials"}, "429": {"description": "rate_limit_exceeded"}, "503": {"description": "upstream_unavailable"}}}
        },
        "/register": {
            "post": {"tags": ["Gateway"], "summary": "Register a user", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "username, redirect"}, "400": {"description": "invalid_request"}, "409": {"description": "user_exists"}, "503": {"description": "upstream_unavailable"}}}
        },
        "/logout": {
            "post": {"tags": ["Gateway"], "summary": "End the session", "responses": {"204": {"description": "no content"}}}
        },
        "/session": {
            "get": {"tags": ["Gateway"], "summary": "Current session", "produces": ["application/json"],
                "responses": {"200": {"description": "username"}, "401": {"description": "login_required"}}}
        },
        "/home": {
            "get": {"tags": ["Gateway"], "summary": "Articles and purchases", "produces": ["application/json"],
                "responses": {"200": {"description": "user, articles, purchases"}, "401": {"description": "login_required"}, "503": {"description": "upstream_unavailable"}}}
        },
        "/buy": {
            "post": {"tags": ["Gateway"], "summary": "Buy an article", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "message, article, user"}, "400": {"description": "invalid_request"}, "401": {"description": "login_required"}, "404": {"description": "not_found"}}}
        },`)

	PKCEAuthzSpec = register(PKCEAuthz,
		"Shopgate PKCE Authorization API",
		"Binds a code challenge to a single-use authorization code and exchanges it for an opaque token.",
		`        "/authorize": {
            "post": {"tags": ["PKCE"], "summary": "Request an authorization code", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "message, authorization_code"}, "400": {"description": "missing_code_challenge"}}}
        },
        "/token": {
            "post": {"tags": ["PKCE"], "summary": "Exchange a code and verifier for a token", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "message, access_token, token_type, resource_register"}, "400": {"description": "missing_parameters, invalid_authorization_code or invalid_code_verifier"}}}
        },`)

	PKCEResourceSpec = register(PKCEResource,
		"Shopgate PKCE Resource API",
		"Accepts opaque tokens registered by the authorization role and records every guard decision.",
		`        "/register-token": {
            "post": {"tags": ["Resource"], "summary": "Register an opaque token", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "message"}, "400": {"description": "missing_access_token"}}}
        },
        "/profile": {
            "get": {"tags": ["Resource"], "summary": "Demo profile", "security": [{"BearerAuth": []}], "produces": ["application/json"],
                "responses": {"200": {"description": "username, email, role, status"}, "401": {"description": "missing_token or invalid_format"}, "403": {"description": "invalid_token"}}}
        },
        "/security-log": {
            "get": {"tags": ["Resource"], "summary": "Security events in append order", "produces": ["application/json"],
                "responses": {"200": {"description": "events"}}}
        },
        "/products": {
            "get": {"tags": ["Resource"], "summary": "List products", "produces": ["application/json"], "responses": {"200": {"description": "products"}}},
            "post": {"tags": ["Resource"], "summary": "Create a product", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "id"}, "400": {"description": "name_and_price_required"}}}
        },
        "/orders": {
            "get": {"tags": ["Resource"], "summary": "Order history", "security": [{"BearerAuth": []}], "produces": ["application/json"],
                "responses": {"200": {"description": "orders"}, "401": {"description": "missing_token"}, "403": {"description": "invalid_token"}}},
            "post": {"tags": ["Resource"], "summary": "Place an order", "security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "order_id"}, "400": {"description": "no_items"}, "401": {"description": "missing_token"}, "403": {"description": "invalid_token"}}}
        },`)
)
