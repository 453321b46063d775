package server

import _ "embed"

// indexHTML is the chat page served at /. It subscribes to the event stream
// and posts lines back to /chat.
//
//go:embed index.html
var indexHTML []byte
