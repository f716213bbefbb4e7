package proto

// Identifier bytes, one per command shape. The byte selects both the
// field count and the semantics of a frame.
const (
	IdentConnect    byte = 'C'
	IdentLogin      byte = 'A'
	IdentNewUser    byte = 'N'
	IdentSendAll    byte = 'S'
	IdentSendDirect byte = 'D'
	IdentWho        byte = 'W'
	IdentDisconnect byte = 'X'
	IdentPrint      byte = 'P'
	IdentUserID     byte = 'U'
)

// Command is one wire-encodable chat command. The set of
// implementations is closed; decoding goes through a Registry so an
// identifier can never produce a command of the wrong direction.
type Command interface {
	Ident() byte
	fields() []string
}

// shape ties an identifier to its field count and constructor.
type shape struct {
	arity int
	build func(values []string) Command
}

// Registry maps identifier bytes to command shapes for one direction
// of the protocol.
type Registry map[byte]shape

// ClientToServer holds the commands a server accepts from a client.
var ClientToServer = Registry{
	IdentConnect:    {1, func(v []string) Command { return Connect{Version: v[0]} }},
	IdentLogin:      {2, func(v []string) Command { return Login{UserID: v[0], Password: v[1]} }},
	IdentNewUser:    {2, func(v []string) Command { return NewUser{UserID: v[0], Password: v[1]} }},
	IdentSendAll:    {1, func(v []string) Command { return SendAll{Message: v[0]} }},
	IdentSendDirect: {2, func(v []string) Command { return SendDirect{UserID: v[0], Message: v[1]} }},
	IdentWho:        {0, func([]string) Command { return Who{} }},
}

// ServerToClient holds the commands a client accepts from a server.
var ServerToClient = Registry{
	IdentDisconnect: {1, func(v []string) Command { return Disconnect{Message: v[0]} }},
	IdentPrint:      {1, func(v []string) Command { return Print{Message: v[0]} }},
	IdentUserID:     {1, func(v []string) Command { return UserID{UserID: v[0]} }},
}

// Connect announces the client's protocol version. The server answers
// a mismatch with Disconnect. This is a compatibility handshake, not
// authentication.
type Connect struct {
	Version string
}

func (c Connect) Ident() byte      { return IdentConnect }
func (c Connect) fields() []string { return []string{c.Version} }

// Validate reports whether the requested version is one this protocol
// family knows about.
func (c Connect) Validate() error {
	if !ValidVersion(c.Version) {
		return errInvalid("version must be 1 or 2")
	}
	return nil
}

// Login authenticates a user on this connection.
type Login struct {
	UserID   string
	Password string
}

func (c Login) Ident() byte      { return IdentLogin }
func (c Login) fields() []string { return []string{c.UserID, c.Password} }

func (c Login) Validate() error {
	return validateCredentials(c.UserID, c.Password)
}

// Help returns the console usage text for the login command.
func (c Login) Help() string {
	return "    login [USER_ID] [PASSWORD]\n" +
		"        Log into the chat program.\n" +
		credentialRules
}

// NewUser creates a user account in the credential store.
type NewUser struct {
	UserID   string
	Password string
}

func (c NewUser) Ident() byte      { return IdentNewUser }
func (c NewUser) fields() []string { return []string{c.UserID, c.Password} }

func (c NewUser) Validate() error {
	return validateCredentials(c.UserID, c.Password)
}

func (c NewUser) Help() string {
	return "    newuser [USER_ID] [PASSWORD]\n" +
		"        Create a new user of the chat program.\n" +
		credentialRules
}

// SendAll broadcasts a message to every logged-in user.
type SendAll struct {
	Message string
}

func (c SendAll) Ident() byte      { return IdentSendAll }
func (c SendAll) fields() []string { return []string{c.Message} }

func (c SendAll) Validate() error {
	if !ValidMessage(c.Message) {
		return errInvalid("message must be 1-256 characters")
	}
	return nil
}

func (c SendAll) Help() string {
	return "    send [MESSAGE]             --  version 1\n" +
		"    send all [MESSAGE]         --  version 2\n" +
		"        Send a message to all users of the chat program.\n" +
		"        - You must be logged in to send messages.\n" +
		"        - MESSAGE should be 1-256 characters."
}

// SendDirect delivers a message to exactly one named user.
type SendDirect struct {
	UserID  string
	Message string
}

func (c SendDirect) Ident() byte      { return IdentSendDirect }
func (c SendDirect) fields() []string { return []string{c.UserID, c.Message} }

func (c SendDirect) Validate() error {
	if !ValidUserID(c.UserID) {
		return errInvalid("user id must be 3-32 characters without whitespace")
	}
	if !ValidMessage(c.Message) {
		return errInvalid("message must be 1-256 characters")
	}
	return nil
}

func (c SendDirect) Help() string {
	return "    send [USER_ID] [MESSAGE]   -- version 2\n" +
		"        Send a direct message to a user of the chat program.\n" +
		"        - You must be logged in to send messages.\n" +
		"        - USER_ID should be 3-32 characters.\n" +
		"        - MESSAGE should be 1-256 characters."
}

// Who requests the list of logged-in users.
type Who struct{}

func (c Who) Ident() byte      { return IdentWho }
func (c Who) fields() []string { return nil }

func (c Who) Validate() error { return nil }

func (c Who) Help() string {
	return "    who                        -- version 2\n" +
		"        List currently connected users.\n" +
		"        - You must be logged in to check who is connected."
}

// Disconnect tells the client to print the message and close its
// connection.
type Disconnect struct {
	Message string
}

func (c Disconnect) Ident() byte      { return IdentDisconnect }
func (c Disconnect) fields() []string { return []string{c.Message} }

// Print tells the client to render the message verbatim.
type Print struct {
	Message string
}

func (c Print) Ident() byte      { return IdentPrint }
func (c Print) fields() []string { return []string{c.Message} }

// UserID tells the client which identifier its session is now logged
// in as.
type UserID struct {
	UserID string
}

func (c UserID) Ident() byte      { return IdentUserID }
func (c UserID) fields() []string { return []string{c.UserID} }

const credentialRules = "        - Both USER_ID and PASSWORD are case-sensitive.\n" +
	"        - USER_ID should be 3-32 characters.\n" +
	"        - PASSWORD should be 4-8 characters.\n" +
	"        - Spaces and other whitespace are not allowed in USER_ID or PASSWORD."
