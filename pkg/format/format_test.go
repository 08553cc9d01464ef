package format_test

import (
	"github.com/docker/go-connections/nat"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	dockerContainerType "github.com/docker/docker/api/types/container"

	"github.com/nicholas-fedor/composer/pkg/format"
	"github.com/nicholas-fedor/composer/pkg/types"
)

var _ = ginkgo.Describe("Format", func() {
	ginkgo.Describe("Ports", func() {
		ginkgo.It("returns nil for an empty port map", func() {
			gomega.Expect(format.Ports(nil)).To(gomega.BeNil())
			gomega.Expect(format.Ports(nat.PortMap{})).To(gomega.BeNil())
		})

		ginkgo.It("keeps exposed ports without bindings", func() {
			ports := format.Ports(nat.PortMap{"6379/tcp": nil})
			gomega.Expect(ports).To(gomega.Equal([]types.Port{
				{ContainerPort: "6379", Protocol: "tcp"},
			}))
		})

		ginkgo.It("emits one entry per binding in numeric order", func() {
			ports := format.Ports(nat.PortMap{
				"8080/tcp": {{HostIP: "0.0.0.0", HostPort: "18080"}},
				"80/tcp": {
					{HostIP: "0.0.0.0", HostPort: "8000"},
					{HostIP: "::", HostPort: "8000"},
				},
				"53/udp": {{HostIP: "127.0.0.1", HostPort: "5353"}},
			})

			gomega.Expect(ports).To(gomega.Equal([]types.Port{
				{ContainerPort: "53", HostPort: "5353", HostIP: "127.0.0.1", Protocol: "udp"},
				{ContainerPort: "80", HostPort: "8000", HostIP: "0.0.0.0", Protocol: "tcp"},
				{ContainerPort: "80", HostPort: "8000", HostIP: "::", Protocol: "tcp"},
				{ContainerPort: "8080", HostPort: "18080", HostIP: "0.0.0.0", Protocol: "tcp"},
			}))
		})
	})

	ginkgo.Describe("RestartPolicy", func() {
		ginkgo.DescribeTable("serializes to the short form",
			func(policy dockerContainerType.RestartPolicy, expected string) {
				gomega.Expect(format.RestartPolicy(policy)).To(gomega.Equal(expected))
			},
			ginkgo.Entry("empty", dockerContainerType.RestartPolicy{}, ""),
			ginkgo.Entry("disabled",
				dockerContainerType.RestartPolicy{Name: dockerContainerType.RestartPolicyDisabled}, ""),
			ginkgo.Entry("always",
				dockerContainerType.RestartPolicy{Name: dockerContainerType.RestartPolicyAlways}, "always"),
			ginkgo.Entry("unless-stopped",
				dockerContainerType.RestartPolicy{Name: dockerContainerType.RestartPolicyUnlessStopped},
				"unless-stopped"),
			ginkgo.Entry("on-failure without retries",
				dockerContainerType.RestartPolicy{Name: dockerContainerType.RestartPolicyOnFailure},
				"on-failure"),
			ginkgo.Entry("on-failure with retries",
				dockerContainerType.RestartPolicy{
					Name:              dockerContainerType.RestartPolicyOnFailure,
					MaximumRetryCount: 5,
				}, "on-failure:5"),
		)
	})
})
