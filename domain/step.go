package domain

// Step is one stage of the linear checkout wizard.
type Step string

const (
	StepAccount  Step = "account"
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

// StepOrder is the declared wizard order. Ordinals follow slice position.
var StepOrder = []Step{StepAccount, StepShipping, StepPayment, StepReview}

var stepPaths = map[Step]string{
	StepAccount:  "/checkout",
	StepShipping: "/checkout/shipping",
	StepPayment:  "/checkout/payment",
	StepReview:   "/checkout/review",
}

func (s Step) String() string {
	return string(s)
}

func indexOf(s Step) int {
	for i, step := range StepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// NextStep returns the step immediately after s, or false if s is last
// (or unknown).
func NextStep(s Step) (Step, bool) {
	i := indexOf(s)
	if i < 0 || i == len(StepOrder)-1 {
		return "", false
	}
	return StepOrder[i+1], true
}

// PrevStep returns the step immediately before s, or false if s is first
// (or unknown).
func PrevStep(s Step) (Step, bool) {
	i := indexOf(s)
	if i <= 0 {
		return "", false
	}
	return StepOrder[i-1], true
}

// PathOf returns the route path for a step.
func PathOf(s Step) string {
	return stepPaths[s]
}

// StepOf is the inverse of PathOf.
func StepOf(path string) (Step, bool) {
	for step, p := range stepPaths {
		if p == path {
			return step, true
		}
	}
	return "", false
}

// ParseStep resolves a step by name.
func ParseStep(name string) (Step, bool) {
	for _, step := range StepOrder {
		if string(step) == name {
			return step, true
		}
	}
	return "", false
}

// StepNumber is the 1-based position of a step, for progress display.
func StepNumber(s Step) int {
	return indexOf(s) + 1
}
