package render

import (
	"fmt"
	"strings"

	"github.com/thommevans/hst-prep/internal/domain/model"
)

// Annotation returns the figure text summarising the assumptions and the
// resulting phase constraints of p.
func Annotation(p model.Plan) string {
	obs := p.Observing
	window := p.Window.Normalized()

	var b strings.Builder
	fmt.Fprintf(&b, " Assuming:\n  HST period = %.2f minutes\n  Visibility = %.2f minutes",
		obs.OrbitPeriod*model.MinutesPerDay, obs.VisibilityMinutes)
	fmt.Fprintf(&b, "\n  P = %.8f days\n  T0 = %.8f", p.Ephemeris.Period, p.Ephemeris.MidTime)
	fmt.Fprintf(&b, "\n\nSpecified phase range applied\nto %s:\n  Lower = %.5f\n  Upper = %.5f",
		p.Exposure, window.Lower, window.Upper)
	fmt.Fprintf(&b, "\n(%d minute window)", p.WindowMinutes())
	fmt.Fprintf(&b, "\n\n%g-sigma plausible range:\n  Phase lower = %.5f\n  Phase upper = %.5f",
		obs.Sigma, p.PhaseLow, p.PhaseUpp)
	return b.String()
}
