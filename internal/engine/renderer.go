package engine

// StatusStyle hints how status text should look.
type StatusStyle int

const (
	StyleNormal StatusStyle = iota
	StyleMoving
	StyleHolding
	StyleArrived
	StyleSuccess
	StyleError
)

// Panel texts.
const (
	PanelReady   = "READY"
	PanelMoving  = "MOVING..."
	PanelArrived = "ARRIVED"
)

// Placeholder masks a floor that has not been labeled yet.
const Placeholder = "???"

// Renderer is everything the session needs from a user interface.
// Guide messages may carry <b>…</b> and <br> markup.
type Renderer interface {
	Report(level int)
	ShowStatus(text string, style StatusStyle)
	ShowPanel(text string)
	SetTargetHighlight(level int, on bool)
	SetControlsEnabled(enabled bool)
	SetSubmitEnabled(enabled bool)
	ShowGuideMessage(text string)
	ShowCommand(text string)
	ShowFloorLabel(level int, text string)
	Alert(text string)
}

// NopRenderer discards everything.
type NopRenderer struct{}

func (NopRenderer) Report(int)                     {}
func (NopRenderer) ShowStatus(string, StatusStyle) {}
func (NopRenderer) ShowPanel(string)               {}
func (NopRenderer) SetTargetHighlight(int, bool)   {}
func (NopRenderer) SetControlsEnabled(bool)        {}
func (NopRenderer) SetSubmitEnabled(bool)          {}
func (NopRenderer) ShowGuideMessage(string)        {}
func (NopRenderer) ShowCommand(string)             {}
func (NopRenderer) ShowFloorLabel(int, string)     {}
func (NopRenderer) Alert(string)                   {}
