package events

import "github.com/dshills/scribe/internal/event/topic"

// Config event topics.
const (
	// TopicConfigReloaded is published after the config file was re-read.
	TopicConfigReloaded topic.Topic = "config.reloaded"
)

// ConfigReloaded is the payload for TopicConfigReloaded.
type ConfigReloaded struct {
	// Path is the file that changed.
	Path string

	// RestartRequired lists settings that changed but only apply on restart.
	RestartRequired []string
}
