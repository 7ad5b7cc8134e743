// Package pveum drives the pveum command-line tool on a Proxmox VE node
// through a runner.Runner transport.
//
// pveum's JSON output support is inconsistent across Proxmox releases: the
// flag is spelled --output-format json on current versions and --format json
// on some older ones, and ancient versions have neither. Probe negotiates
// this per command and callers fall back to text parsing when no structured
// output is available, so the package works against any node version without
// hard-coding one flag spelling.
package pveum
