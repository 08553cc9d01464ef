package compose_test

import (
	"context"
	"errors"

	"github.com/docker/go-connections/nat"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	dockerContainerType "github.com/docker/docker/api/types/container"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/compose/mocks"
	"github.com/nicholas-fedor/composer/pkg/types"
)

var _ = ginkgo.Describe("Entry", func() {
	ginkgo.Describe("NewEntry", func() {
		ginkgo.It("copies the declared service into the attributes", func() {
			def := types.ServiceDefinition{
				Name:        "web",
				Image:       "nginx:1.27",
				Build:       &types.Build{Context: ".", Dockerfile: "Dockerfile"},
				Links:       map[string]string{"db": "database"},
				Environment: []string{"A=1"},
				Restart:     "always",
				MemLimit:    1024,
			}

			entry := compose.NewEntry(def, project)
			attrs := entry.Attributes()

			gomega.Expect(entry.Label()).To(gomega.Equal("web"))
			gomega.Expect(entry.LoadedFromEnvironment()).To(gomega.BeFalse())
			gomega.Expect(entry.Handle()).To(gomega.BeNil())
			gomega.Expect(attrs.Image).To(gomega.Equal("nginx:1.27"))
			gomega.Expect(attrs.Build).To(gomega.Equal(&types.Build{Context: ".", Dockerfile: "Dockerfile"}))
			gomega.Expect(attrs.Project).To(gomega.Equal(project))
			gomega.Expect(entry.Links()).To(gomega.Equal(map[string]string{"db": "database"}))

			def.Links["cache"] = "cache"
			gomega.Expect(entry.Links()).NotTo(gomega.HaveKey("cache"))
		})
	})

	ginkgo.Describe("NewEntryFromContainer", func() {
		ginkgo.It("derives the label and command from a live container", func() {
			container := mocks.NewContainer("myproj_web_1",
				mocks.WithCmd("nginx", "-g", "daemon off;"))

			entry := compose.NewEntryFromContainer(container, project)
			attrs := entry.Attributes()

			gomega.Expect(entry.Label()).To(gomega.Equal("web"))
			gomega.Expect(entry.FullName()).To(gomega.Equal("myproj_web_1"))
			gomega.Expect(entry.LoadedFromEnvironment()).To(gomega.BeTrue())
			gomega.Expect(attrs.Command).To(gomega.Equal("nginx -g daemon off;"))
			gomega.Expect(attrs.Build).To(gomega.BeNil())
			gomega.Expect(entry.Handle()).To(gomega.BeIdenticalTo(container))
		})

		ginkgo.It("maps runtime configuration", func() {
			container := mocks.NewContainer("myproj_api_1",
				mocks.WithImage("api:2"),
				mocks.WithEnv("PORT=8080"),
				mocks.WithLabels(map[string]string{compose.ComposeServiceLabel: "api"}),
				mocks.WithLinks("/myproj_db_1:/myproj_api_1/db"),
				mocks.WithPorts(nat.PortMap{
					"8080/tcp": {{HostIP: "0.0.0.0", HostPort: "80"}},
				}),
				mocks.WithRestartPolicy(dockerContainerType.RestartPolicy{
					Name:              dockerContainerType.RestartPolicyOnFailure,
					MaximumRetryCount: 3,
				}),
				mocks.WithResources(256, 50000, 1<<20, 2<<20),
			)

			attrs := compose.NewEntryFromContainer(container, project).Attributes()

			gomega.Expect(attrs.Image).To(gomega.Equal("api:2"))
			gomega.Expect(attrs.Environment).To(gomega.Equal([]string{"PORT=8080"}))
			gomega.Expect(attrs.Links).To(gomega.Equal(map[string]string{"myproj_db_1": "db"}))
			gomega.Expect(attrs.Ports).To(gomega.Equal([]types.Port{
				{ContainerPort: "8080", HostPort: "80", HostIP: "0.0.0.0", Protocol: "tcp"},
			}))
			gomega.Expect(attrs.Restart).To(gomega.Equal("on-failure:3"))
			gomega.Expect(attrs.CPUShares).To(gomega.Equal(int64(256)))
			gomega.Expect(attrs.CPUQuota).To(gomega.Equal(int64(50000)))
			gomega.Expect(attrs.MemLimit).To(gomega.Equal(int64(1 << 20)))
			gomega.Expect(attrs.MemSwapLimit).To(gomega.Equal(int64(2 << 20)))
		})

		ginkgo.It("keeps the first name segment out of the label", func() {
			entry := compose.NewEntryFromContainer(mocks.NewContainer("my_proj_web_1"), "my_proj")

			gomega.Expect(entry.Label()).To(gomega.Equal("proj"))
		})
	})

	ginkgo.Describe("Requires", func() {
		ginkgo.It("reads links and depends_on from a running container", func() {
			container := mocks.NewContainer("myproj_web_1",
				mocks.WithLinks("/myproj_db_1:/myproj_web_1/database", "/myproj_web_1:/myproj_web_1/self"),
				mocks.WithLabels(map[string]string{
					compose.ComposeDependsOnLabel: "cache:service_started:false,db:service_healthy:true",
				}),
			)

			entry := compose.NewEntryFromContainer(container, project)

			gomega.Expect(entry.Requires()).To(gomega.Equal([]string{"cache", "db"}))
			gomega.Expect(entry.Dependencies()).To(gomega.BeEmpty())
		})

		ginkgo.It("matches the resolved dependencies of a declared entry", func() {
			web := declared("web", map[string]string{"db": "db"})
			web.AddDependency(declared("db", nil))

			gomega.Expect(web.Requires()).To(gomega.Equal([]string{"db"}))
			gomega.Expect(declared("db", nil).Requires()).To(gomega.BeEmpty())
		})
	})

	ginkgo.DescribeTable("ParseDependsOnLabel",
		func(value string, expected []string) {
			gomega.Expect(compose.ParseDependsOnLabel(value)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("empty", "", nil),
		ginkgo.Entry("blank", "  ", nil),
		ginkgo.Entry("single service", "db", []string{"db"}),
		ginkgo.Entry("conditions", "db:service_healthy:true,cache:service_started:false",
			[]string{"db", "cache"}),
		ginkgo.Entry("empty items and spaces", " db , ,:service_started, cache", []string{"db", "cache"}),
	)

	ginkgo.Describe("AddDependency", func() {
		ginkgo.It("ignores nil and self and repeats", func() {
			web := declared("web", nil)
			db := declared("db", nil)

			web.AddDependency(nil)
			web.AddDependency(web)
			web.AddDependency(db)
			web.AddDependency(db)

			gomega.Expect(web.Dependencies()).To(gomega.Equal([]string{"db"}))
			gomega.Expect(web.DependsOn("db")).To(gomega.BeTrue())
			gomega.Expect(db.Dependencies()).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Perform", func() {
		ginkgo.It("returns the engine fault", func() {
			container := mocks.NewContainer("myproj_web_1")
			container.Errors["kill"] = errors.New("no such process")
			entry := compose.NewEntryFromContainer(container, project)

			gomega.Expect(entry.Kill(context.Background())).To(gomega.MatchError("no such process"))
			gomega.Expect(entry.Delete(context.Background())).To(gomega.Succeed())
		})

		ginkgo.It("rejects unknown actions", func() {
			entry := declared("web", nil)
			entry.SetHandle(mocks.NewContainer("myproj_web_1"))

			gomega.Expect(entry.Perform(context.Background(), compose.Action("pause"))).
				To(gomega.MatchError(compose.ErrUnknownAction))
		})
	})

	ginkgo.Describe("Matches", func() {
		entry := compose.NewEntry(types.ServiceDefinition{
			Name:   "web",
			Image:  "nginx",
			Build:  &types.Build{Context: "."},
			Labels: map[string]string{"tier": "front"},
		}, project)

		ginkgo.DescribeTable("criteria",
			func(criteria types.Criteria, expected bool) {
				gomega.Expect(entry.Matches(criteria)).To(gomega.Equal(expected))
			},
			ginkgo.Entry("empty", types.Criteria{}, true),
			ginkgo.Entry("label", types.Criteria{types.AttrLabel: "web"}, true),
			ginkgo.Entry("project", types.Criteria{types.AttrProject: project}, true),
			ginkgo.Entry("build value", types.Criteria{types.AttrBuild: types.Build{Context: "."}}, true),
			ginkgo.Entry("build mismatch", types.Criteria{types.AttrBuild: types.Build{Context: "./api"}}, false),
			ginkgo.Entry("nil build", types.Criteria{types.AttrBuild: nil}, false),
			ginkgo.Entry("labels", types.Criteria{types.AttrLabels: map[string]string{"tier": "front"}}, true),
			ginkgo.Entry("declared provenance", types.Criteria{types.AttrLoadedFromEnvironment: false}, true),
			ginkgo.Entry("live provenance", types.Criteria{types.AttrLoadedFromEnvironment: true}, false),
			ginkgo.Entry("unknown key", types.Criteria{"bogus": "web"}, false),
		)
	})
})
