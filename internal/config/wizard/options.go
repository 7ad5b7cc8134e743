package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/imamik/pvebootstrap/internal/config"
)

// ModeOptions are the selectable connection modes.
var ModeOptions = []huh.Option[string]{
	huh.NewOption("SSH to the node", config.ModeSSH),
	huh.NewOption("Run locally on the node", config.ModeLocal),
	huh.NewOption("Proxmox REST API", config.ModeAPI),
}
