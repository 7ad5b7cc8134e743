// Package config defines the pvebootstrap configuration, its defaults and
// validation, and loading from YAML.
package config

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "pvebootstrap.yaml"

// Connection modes.
const (
	ModeLocal = "local"
	ModeSSH   = "ssh"
	ModeAPI   = "api"
)

// Config is the full pvebootstrap configuration.
type Config struct {
	// Host is the Proxmox node (FQDN or IP). It is both the connection
	// target and the api_host in the rendered credential bundle.
	Host string `yaml:"host"`

	Connection ConnectionConfig `yaml:"connection"`
	User       UserConfig       `yaml:"user"`
	Token      TokenConfig      `yaml:"token"`
	ACL        ACLConfig        `yaml:"acl"`
	Output     OutputConfig     `yaml:"output"`
}

// ConnectionConfig selects and configures the transport.
type ConnectionConfig struct {
	// Mode is one of "ssh", "local" or "api".
	Mode string `yaml:"mode"`

	SSH SSHConfig `yaml:"ssh"`
	API APIConfig `yaml:"api"`
}

// SSHConfig configures the SSH transport.
type SSHConfig struct {
	User string `yaml:"user"`
	Port int    `yaml:"port"`

	// PrivateKey is the path to the private key file. Leave empty to use
	// password authentication.
	PrivateKey string `yaml:"private_key"`

	// Password for SSH password authentication. Prefer leaving this empty
	// and being prompted on a terminal.
	Password string `yaml:"password"`
}

// APIConfig configures the REST API transport.
type APIConfig struct {
	Port int `yaml:"port"`

	// User is the principal used to authenticate against the API,
	// typically root@pam.
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// InsecureTLS skips certificate verification, for nodes running the
	// default self-signed certificate.
	InsecureTLS bool `yaml:"insecure_tls"`
}

// UserConfig describes the automation user to provision.
type UserConfig struct {
	Name    string `yaml:"name"`
	Realm   string `yaml:"realm"`
	Comment string `yaml:"comment"`

	// Password is optional. When set it is applied at creation time for
	// new users and through the password-modification fallback for
	// pre-existing ones.
	Password string `yaml:"password"`

	// PromptPassword asks for the password interactively instead of
	// reading it from this file. Ignored when not running on a terminal.
	PromptPassword bool `yaml:"prompt_password"`
}

// TokenConfig describes the API token to issue.
type TokenConfig struct {
	Name string `yaml:"name"`

	// PrivilegeSeparation scopes the token's permissions independently of
	// its owning user via a distinct ACL grant. Defaults to true.
	PrivilegeSeparation bool `yaml:"privilege_separation"`
}

// ACLConfig describes the role grant.
type ACLConfig struct {
	Role  string   `yaml:"role"`
	Paths []string `yaml:"paths"`
}

// OutputConfig controls credential bundle rendering.
type OutputConfig struct {
	// CredentialsFile, when set, additionally writes the bundle as YAML
	// to this path with mode 0600.
	CredentialsFile string `yaml:"credentials_file"`

	// ValidateCerts is passed through into the rendered bundle for the
	// consuming automation system.
	ValidateCerts bool `yaml:"validate_certs"`
}

// UserID returns the full user principal, name@realm.
func (c *Config) UserID() string {
	return c.User.Name + "@" + c.User.Realm
}
