package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shannu/tdp-shell/internal/push"
)

// Well-known global entry points exposed by the web application.
const (
	pushOpenHook = "window.handlePushOpen"
	fcmTokenHook = "window.setFcmToken"
)

// marshalPayload serializes a payload for embedding in a script argument.
//
// encoding/json escapes quotes and control characters, so the payload cannot
// break out of its string context regardless of field contents. All nine
// fields are always emitted, empty or not, matching what the web application
// expects to destructure.
func marshalPayload(payload push.Payload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(raw), nil
}

// pushOpenScript wraps a serialized payload in a guarded self-invoking call.
// The guard keeps a missing or throwing handler on the remote side from
// surfacing an error into the surface.
func pushOpenScript(payloadJSON string) string {
	return "(function(){try{if(" + pushOpenHook + "){" + pushOpenHook + "(" + payloadJSON + ");}}catch(e){}})();"
}

var tokenEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// tokenScript builds the token injection call. Tokens are opaque strings from
// the issuer; backslashes and single quotes are escaped so the token cannot
// terminate its quoting context.
func tokenScript(token string) string {
	return fcmTokenHook + "('" + tokenEscaper.Replace(token) + "')"
}
