package provision

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is read by
// subsequent phases that need earlier results.
type State struct {
	// Populated by the user phase
	UserCreated bool

	// Populated by the token phase
	TokenID string
	Secret  string

	// Populated by the acl phase
	GrantedPrincipal string
	GrantedPaths     []string
}

// Credentials is the bundle handed to the consuming automation system.
// Exactly one value exists per successful run. Secret is the one-time
// token secret and must be stored protected by the consumer.
type Credentials struct {
	Host          string `yaml:"api_host"`
	User          string `yaml:"api_user"`
	TokenID       string `yaml:"api_token_id"`
	Secret        string `yaml:"api_token_secret"`
	ValidateCerts bool   `yaml:"validate_certs"`
}
