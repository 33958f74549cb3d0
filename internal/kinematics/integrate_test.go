package kinematics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/kinematics"
)

const (
	frame   = 1.0 / 60
	oneYear = 31557600.0
)

func earth() *kinematics.Body {
	b, err := kinematics.NewBody(kinematics.Descriptor{
		Name:                "Earth",
		OrbitalPeriodDays:   365.25,
		RotationPeriodHours: 23.93,
	})
	Expect(err).NotTo(HaveOccurred())
	return b
}

var _ = Describe("ComputeAngularSpeeds", func() {
	It("returns positive finite speeds for positive periods", func() {
		for _, days := range []float64{1e-6, 0.5, 88, 365.25, 60190, 1e9} {
			orbit, spin, err := kinematics.ComputeAngularSpeeds(days, days*24)
			Expect(err).NotTo(HaveOccurred())
			Expect(orbit).To(BeNumerically(">", 0))
			Expect(spin).To(BeNumerically(">", 0))
			Expect(math.IsInf(orbit, 0)).To(BeFalse())
			Expect(math.IsInf(spin, 0)).To(BeFalse())
		}
	})

	It("doubles the speed when the period is halved", func() {
		full, spinFull, err := kinematics.ComputeAngularSpeeds(687, 24.6)
		Expect(err).NotTo(HaveOccurred())
		half, spinHalf, err := kinematics.ComputeAngularSpeeds(687/2.0, 24.6/2)
		Expect(err).NotTo(HaveOccurred())
		Expect(half).To(BeNumerically("~", 2*full, 1e-20))
		Expect(spinHalf).To(BeNumerically("~", 2*spinFull, 1e-15))
	})

	It("gives about 1.99e-7 rad/s for a 365.25 day orbit", func() {
		orbit, _, err := kinematics.ComputeAngularSpeeds(365.25, 24)
		Expect(err).NotTo(HaveOccurred())
		Expect(orbit).To(BeNumerically("~", kinematics.TwoPi/oneYear, 1e-20))
		Expect(orbit).To(BeNumerically("~", 1.9924e-7, 0.02e-7))
	})

	It("rejects a zero period before anything can integrate it", func() {
		_, err := kinematics.NewBody(kinematics.Descriptor{Name: "Nowhere", OrbitalPeriodDays: 0, RotationPeriodHours: 10})
		Expect(err).To(MatchError(kinematics.ErrNonPositivePeriod))
	})
})

var _ = Describe("Integrate", func() {
	var body *kinematics.Body

	BeforeEach(func() {
		body = earth()
	})

	It("advances linearly over repeated frames", func() {
		const n = 1000
		m := 2592000.0
		body.Reset(1.25)
		start := body.Orbit.Total()
		for i := 0; i < n; i++ {
			kinematics.Integrate(body, frame, m)
		}
		want := start + n*body.AngularSpeedOrbit()*frame*m
		Expect(body.Orbit.Total()).To(BeNumerically("~", want, 1e-9))
		Expect(body.Spin.Total()).To(BeNumerically("~", n*body.AngularSpeedRotation()*frame*m, 1e-6))
	})

	It("keeps angles bounded", func() {
		for i := 0; i < 5000; i++ {
			orbit, spin := kinematics.Integrate(body, frame, oneYear)
			Expect(orbit).To(BeNumerically(">=", 0))
			Expect(orbit).To(BeNumerically("<", kinematics.TwoPi))
			Expect(spin).To(BeNumerically(">=", 0))
			Expect(spin).To(BeNumerically("<", kinematics.TwoPi))
		}
	})

	It("moves about 0.10472 rad per frame at one year per second", func() {
		kinematics.Integrate(body, frame, oneYear)
		Expect(body.Orbit.Total()).To(BeNumerically("~", 0.10472, 1e-5))
	})

	It("completes an orbit every 60 frames at one year per second", func() {
		for i := 0; i < 3600; i++ {
			kinematics.Integrate(body, frame, oneYear)
		}
		Expect(body.Orbit.Total()).To(BeNumerically("~", kinematics.TwoPi*60, 1e-8))
	})

	It("does not rescale past progress when the multiplier changes", func() {
		for i := 0; i < 100; i++ {
			kinematics.Integrate(body, frame, 86400)
		}
		before := body.Orbit.Total()
		Expect(before).To(BeNumerically("~", 100*body.AngularSpeedOrbit()*frame*86400, 1e-12))

		kinematics.Integrate(body, frame, oneYear)
		Expect(body.Orbit.Total() - before).To(BeNumerically("~", body.AngularSpeedOrbit()*frame*oneYear, 1e-12))
	})

	DescribeTable("ignores unusable inputs",
		func(dt, m float64) {
			body.Reset(0.5)
			orbit, spin := kinematics.Integrate(body, dt, m)
			Expect(orbit).To(Equal(0.5))
			Expect(spin).To(Equal(0.0))
		},
		Entry("NaN dt", math.NaN(), 1.0),
		Entry("infinite dt", math.Inf(1), 1.0),
		Entry("negative dt", -frame, 1.0),
		Entry("NaN scale", frame, math.NaN()),
		Entry("negative scale", frame, -86400.0),
	)
})

var _ = Describe("IntegrateAll", func() {
	It("matches integrating each body on its own", func() {
		bodies := make([]*kinematics.Body, 0, 2000)
		solo := make([]*kinematics.Body, 0, 2000)
		for i := 0; i < 2000; i++ {
			d := kinematics.Descriptor{
				Name:                "b",
				OrbitalPeriodDays:   float64(i + 1),
				RotationPeriodHours: float64(i%48 + 1),
			}
			a, err := kinematics.NewBody(d)
			Expect(err).NotTo(HaveOccurred())
			b, err := kinematics.NewBody(d)
			Expect(err).NotTo(HaveOccurred())
			bodies = append(bodies, a)
			solo = append(solo, b)
		}

		kinematics.IntegrateAll(bodies, frame, 604800)
		for _, b := range solo {
			kinematics.Integrate(b, frame, 604800)
		}
		for i := range bodies {
			Expect(bodies[i].Orbit).To(Equal(solo[i].Orbit))
			Expect(bodies[i].Spin).To(Equal(solo[i].Spin))
		}
	})
})
