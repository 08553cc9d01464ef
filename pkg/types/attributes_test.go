package types_test

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/composer/pkg/types"
)

var _ = ginkgo.Describe("Attributes", func() {
	attrs := types.Attributes{
		Label:     "web",
		FullName:  "myproj_web_1",
		Build:     &types.Build{Context: "."},
		Links:     map[string]string{"db": "db"},
		Ports:     []types.Port{{ContainerPort: "80", Protocol: "tcp"}},
		CPUShares: 512,
	}

	ginkgo.It("resolves attribute keys", func() {
		value, ok := attrs.Value(types.AttrLabel)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(value).To(gomega.Equal("web"))

		value, _ = attrs.Value(types.AttrName)
		gomega.Expect(value).To(gomega.Equal("myproj_web_1"))

		value, _ = attrs.Value(types.AttrCPUShares)
		gomega.Expect(value).To(gomega.Equal(int64(512)))

		_, ok = attrs.Value("unknown")
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("clones collections and the build", func() {
		clone := attrs.Clone()
		clone.Links["cache"] = "cache"
		clone.Ports[0].HostPort = "8080"
		clone.Build.Context = "./other"

		gomega.Expect(attrs.Links).NotTo(gomega.HaveKey("cache"))
		gomega.Expect(attrs.Ports[0].HostPort).To(gomega.BeEmpty())
		gomega.Expect(attrs.Build.Context).To(gomega.Equal("."))
	})
})
