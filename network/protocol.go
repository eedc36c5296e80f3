package network

// Client message types. Everything the client sends is one JSON object
// with a "type" field; the rest of the fields depend on the type.
const (
	MsgAuthorize     = "authorize"
	MsgMenu          = "menu"
	MsgKeybind       = "keybind"
	MsgEditbox       = "editbox"
	MsgChat          = "chat"
	MsgPing          = "ping"
	MsgSetLocale     = "set_locale"
	MsgSetPreference = "set_preference"
)

// ClientMessage is the inbound wire shape. One flat struct covers every
// message type; unused fields stay empty.
type ClientMessage struct {
	Type string `json:"type"`

	// authorize
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// menu
	MenuID      string `json:"menu_id,omitempty"`
	SelectionID string `json:"selection_id,omitempty"`

	// keybind
	Key string `json:"key,omitempty"`

	// editbox
	ID    string `json:"id,omitempty"`
	Value string `json:"value,omitempty"`

	// chat
	Text string `json:"text,omitempty"`

	// set_locale
	Locale string `json:"locale,omitempty"`

	// set_preference
	Name string `json:"name,omitempty"`
}
