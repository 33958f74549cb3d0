package timescale_test

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/timescale"
)

var _ = Describe("Controller", func() {
	var (
		ctrl *timescale.Controller
		logs *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		ctrl, err = timescale.NewController(timescale.OneMonth)
		Expect(err).NotTo(HaveOccurred())
		logs = &bytes.Buffer{}
		ctrl.WithLogger(slog.New(slog.NewTextHandler(logs, nil)))
	})

	It("keeps the multiplier for every unknown key", func() {
		for _, key := range []string{"", "oneyear", "ONE_DAY", "fortnight", " oneDay"} {
			Expect(ctrl.Set(key)).To(MatchError(timescale.ErrUnknownPreset))
			Expect(ctrl.Multiplier()).To(Equal(2592000.0))
			Expect(ctrl.Key()).To(Equal(timescale.OneMonth))
		}
		Expect(logs.String()).To(ContainSubstring("level=WARN"))
	})

	It("accepts every listed key", func() {
		for _, key := range timescale.Keys() {
			Expect(ctrl.Set(key)).To(Succeed())
			Expect(ctrl.Key()).To(Equal(key))
			p, ok := timescale.Lookup(key)
			Expect(ok).To(BeTrue())
			Expect(ctrl.Multiplier()).To(Equal(p.Multiplier))
		}
	})

	It("cycles through all presets and back", func() {
		n := len(timescale.Keys())
		for i := 0; i < n; i++ {
			ctrl.Next()
		}
		Expect(ctrl.Key()).To(Equal(timescale.OneMonth))

		ctrl.Prev()
		Expect(ctrl.Key()).To(Equal(timescale.OneWeek))
	})

	It("wraps from the fastest preset to the slowest", func() {
		Expect(ctrl.Set(timescale.OneYear)).To(Succeed())
		ctrl.Next()
		Expect(ctrl.Key()).To(Equal(timescale.RealTime))
		ctrl.Prev()
		Expect(ctrl.Key()).To(Equal(timescale.OneYear))
	})
})
