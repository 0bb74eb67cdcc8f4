package domain

// Placeholders for message fields the provider left out.
const (
	UnknownSender = "Unknown sender"
	NoSubject     = "No subject"
)

type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Inbox is a disposable mailbox issued by the provider. Token is the only
// capability needed to read it later.
type Inbox struct {
	Address string `json:"address"`
	Token   string `json:"token"`
}

// Account is the response of account generation.
type Account struct {
	Username string `json:"usuario"`
	Password string `json:"senha"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Message is a mail item as returned by the provider. It is kept as a generic
// JSON object so provider specific fields pass through unmodified.
type Message map[string]any

var messageDefaults = [...]struct {
	key   string
	value string
}{
	{"from", UnknownSender},
	{"subject", NoSubject},
	{"body", ""},
	{"html", ""},
	{"date", ""},
}

// Normalize fills in the fields the provider omitted. Fields that are present,
// even with a null value, are left untouched.
func (m Message) Normalize() {
	for _, d := range messageDefaults {
		if _, ok := m[d.key]; !ok {
			m[d.key] = d.value
		}
	}
}

// Contents is the payload of an inbox read.
type Contents struct {
	Emails  []Message `json:"emails"`
	Expired bool      `json:"expired"`
}

// Normalize normalizes every message. A null entry becomes a message made only
// of defaults.
func (c *Contents) Normalize() {
	if c.Emails == nil {
		c.Emails = []Message{}
	}

	for i, m := range c.Emails {
		if m == nil {
			m = Message{}
			c.Emails[i] = m
		}
		m.Normalize()
	}
}
