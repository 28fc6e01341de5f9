package particle_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/driftfield/internal/frame"
	"github.com/san-kum/driftfield/internal/particle"
)

type tally struct {
	clears, circles, lines int
	maxOpacity             float64
}

func (t *tally) Clear()                 { t.clears++ }
func (t *tally) Circle(x, y, r float64) { t.circles++ }
func (t *tally) Line(_, _, _, _, o float64) {
	t.lines++
	if o > t.maxOpacity {
		t.maxOpacity = o
	}
}

var _ = Describe("Field", func() {
	var (
		f      *particle.Field
		bounds particle.Bounds
	)

	BeforeEach(func() {
		f = particle.New(particle.WithSeed(11))
		bounds = particle.Bounds{Width: 320, Height: 180}
		f.Initialize(particle.DefaultCount, bounds)
	})

	It("keeps every particle inside its bounds while drifting", func() {
		for i := 0; i < 2000; i++ {
			f.Advance()
		}
		for _, p := range f.Particles() {
			Expect(p.X).To(And(BeNumerically(">=", 0), BeNumerically("<", bounds.Width)))
			Expect(p.Y).To(And(BeNumerically(">=", 0), BeNumerically("<", bounds.Height)))
		}
	})

	It("never draws a line fainter than zero or brighter than one", func() {
		s := &tally{}
		links := f.Render(s)
		Expect(s.circles).To(Equal(particle.DefaultCount))
		Expect(s.lines).To(Equal(links))
		Expect(s.maxOpacity).To(BeNumerically("<=", 1))
	})

	It("scans at most every unordered pair", func() {
		s := &tally{}
		n := particle.DefaultCount
		Expect(f.Render(s)).To(BeNumerically("<=", n*(n-1)/2))
	})

	Context("when driven by a manual scheduler", func() {
		var sched *frame.Manual

		BeforeEach(func() {
			sched = frame.NewManual()
		})

		It("renders once per frame until stopped", func() {
			s := &tally{}
			stop := f.Run(sched, s)
			sched.Step(time.Now())
			sched.Step(time.Now())
			Expect(s.clears).To(Equal(2))

			stop()
			sched.Step(time.Now())
			Expect(s.clears).To(Equal(2))
			Expect(sched.Pending()).To(BeZero())
		})

		It("stops through the field as well as the handle", func() {
			stop := f.Run(sched, &tally{})
			defer stop()
			f.Stop()
			Expect(f.Running()).To(BeFalse())
			Expect(sched.Step(time.Now())).To(BeZero())
		})
	})

	Context("after shrinking", func() {
		It("leaves particles untouched until the next advance", func() {
			before := f.Particles()
			f.Resize(particle.Bounds{Width: 10, Height: 10})
			Expect(f.Particles()).To(Equal(before))

			f.Advance()
			for _, p := range f.Particles() {
				Expect(p.X).To(BeNumerically("<", 10))
				Expect(p.Y).To(BeNumerically("<", 10))
			}
		})
	})
})
