package procedure

// LoadingMessages cycle under the progress bar while a procedure is being
// generated.
var LoadingMessages = []string{
	"Initializing experiment parameters...",
	"Analyzing food composition...",
	"Scanning for potential chemical reactions...",
	"Consulting scientific database...",
	"Formulating safety precautions...",
	"Finalizing test procedure...",
}

const (
	progressCap     = 0.98
	progressMinStep = 0.001
)

// Progress is the cosmetic progress shown while Pending. It only ever grows,
// stays below completion until Complete is called and has no bearing on the
// resolution itself.
type Progress struct {
	value float64
	step  int
}

// Value is the progress in [0, 1].
func (p *Progress) Value() float64 { return p.value }

// Advance moves the bar forward. jitter in [0, 1) scales the step; steps
// shrink as the bar fills.
func (p *Progress) Advance(jitter float64) float64 {
	if p.value >= progressCap {
		return p.value
	}
	inc := jitter * (1 - p.value) / 10
	if inc < progressMinStep {
		inc = progressMinStep
	}
	p.value += inc
	if p.value > progressCap {
		p.value = progressCap
	}
	return p.value
}

// Complete snaps the bar to full.
func (p *Progress) Complete() { p.value = 1 }

// Reset empties the bar and restarts the messages.
func (p *Progress) Reset() { *p = Progress{} }

// Message is the current loading message.
func (p *Progress) Message() string { return LoadingMessages[p.step] }

// NextMessage cycles to the next loading message.
func (p *Progress) NextMessage() string {
	p.step = (p.step + 1) % len(LoadingMessages)
	return p.Message()
}
