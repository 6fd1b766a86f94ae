package intent

import "errors"

// ErrMalformed is wrapped (fmt.Errorf("...: %w", ErrMalformed)) by every
// load-stage failure: unparsable JSON, wrong record shape, duplicate IDs,
// unknown kind strings. Corresponds to InputMalformed.
var ErrMalformed = errors.New("intent: malformed input")

// ErrUnknownNode is wrapped when an intent's src, dst, or a path node isn't
// among the topology's routers. Corresponds to IntentReferencesUnknownNode.
var ErrUnknownNode = errors.New("intent: references unknown node")
