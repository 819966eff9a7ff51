package buttons

import "buttoncode-go/bus"

// Topic layout:
//
//	config/buttons                     retained types.ButtonsConfig
//	buttons/state/service              retained service status string
//	buttons/info/<unit>/<name>         retained types.Info
//	buttons/state/<unit>/<name>        retained types.ButtonValue
//	buttons/event/<unit>/<name>        types.ButtonEvent stream
//	buttons/control/<verb>             control requests, optional ReplyTo

const (
	tokButtons = "buttons"
	tokConfig  = "config"
	tokState   = "state"
	tokInfo    = "info"
	tokEvent   = "event"
	tokControl = "control"
	tokService = "service"
)

// CtrlReadNow republishes the current state of every button as events.
const CtrlReadNow = "read_now"

// TopicConfig is where the service expects its retained configuration.
func TopicConfig() bus.Topic { return bus.T(tokConfig, tokButtons) }

// TopicEvents matches the event stream of every button.
func TopicEvents() bus.Topic { return bus.T(tokButtons, tokEvent, "+", "+") }

// TopicControl addresses one control verb.
func TopicControl(verb string) bus.Topic { return bus.T(tokButtons, tokControl, verb) }

func topicServiceState() bus.Topic { return bus.T(tokButtons, tokState, tokService) }

func topicInfo(unit, name string) bus.Topic { return bus.T(tokButtons, tokInfo, unit, name) }

func topicState(unit, name string) bus.Topic { return bus.T(tokButtons, tokState, unit, name) }

func topicEvent(unit, name string) bus.Topic { return bus.T(tokButtons, tokEvent, unit, name) }

func topicControlAny() bus.Topic { return bus.T(tokButtons, tokControl, "+") }
