package dto

import "encoding/json"

// RawRecord is one source-native post as an opaque key-value structure.
type RawRecord map[string]interface{}

// RedditOAuthResponse is the body returned by the client_credentials grant.
type RedditOAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// RedditListingResponse is the search envelope: data.children[].data.
type RedditListingResponse struct {
	Kind string            `json:"kind"`
	Data RedditListingData `json:"data"`
}

type RedditListingData struct {
	Children []RedditChild `json:"children"`
	After    string        `json:"after"`
}

// RedditChild keeps the post payload raw so malformed posts fail individually in the parser.
type RedditChild struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}
