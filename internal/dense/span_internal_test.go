package dense

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynout/internal/scalar"
)

var _ = DescribeTable("inSpan",
	func(t, start, end float64, want bool) {
		Expect(inSpan(scalar.Real(t), scalar.Real(start), scalar.Real(end))).To(Equal(want))
	},
	Entry("inside", 0.5, 0.0, 1.0, true),
	Entry("at start", 0.0, 0.0, 1.0, true),
	Entry("at end", 1.0, 0.0, 1.0, true),
	Entry("before start", -0.1, 0.0, 1.0, false),
	Entry("after end", 1.1, 0.0, 1.0, false),
	Entry("NaN query", math.NaN(), 0.0, 1.0, false),
	Entry("NaN start", 0.0, math.NaN(), 1.0, false),
	Entry("NaN end", 0.0, 0.0, math.NaN(), false),
	Entry("NaN span", 0.0, math.NaN(), math.NaN(), false),
)
