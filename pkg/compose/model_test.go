package compose_test

import (
	"context"
	"errors"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/compose/mocks"
	"github.com/nicholas-fedor/composer/pkg/types"
)

const project = "myproj"

func declared(name string, links map[string]string) *compose.Entry {
	return compose.NewEntry(types.ServiceDefinition{
		Name:  name,
		Image: name + ":latest",
		Links: links,
	}, project)
}

func live(name string, updates ...mocks.ContainerUpdate) (*compose.Entry, *mocks.Container) {
	container := mocks.NewContainer(name, updates...)

	return compose.NewEntryFromContainer(container, project), container
}

func edges(model *compose.Model) map[string][]string {
	out := map[string][]string{}
	for _, entry := range model.Entries() {
		out[entry.Label()] = entry.Dependencies()
	}

	return out
}

func labels(entries []*compose.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Label())
	}

	return out
}

var _ = ginkgo.Describe("Model", func() {
	var (
		ctx   context.Context
		model *compose.Model
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		model = compose.NewModel(project)
	})

	ginkgo.Describe("AddOrUpdateContainer", func() {
		ginkgo.It("stores entries under their label", func() {
			model.AddOrUpdateContainer(declared("web", nil))
			model.AddOrUpdateContainer(declared("db", nil))

			gomega.Expect(model.Len()).To(gomega.Equal(2))
			gomega.Expect(model.Labels()).To(gomega.Equal([]string{"db", "web"}))
			gomega.Expect(model.ProjectName()).To(gomega.Equal(project))
		})

		ginkgo.It("replaces an entry with the same label", func() {
			model.AddOrUpdateContainer(declared("web", nil))
			replacement, _ := live("myproj_web_1")
			model.AddOrUpdateContainer(replacement)

			entry, ok := model.Get("web")
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(entry).To(gomega.BeIdenticalTo(replacement))
			gomega.Expect(model.Len()).To(gomega.Equal(1))
		})

		ginkgo.It("ignores nil entries", func() {
			model.AddOrUpdateContainer(nil)
			gomega.Expect(model.Len()).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("LinkContainers", func() {
		ginkgo.It("resolves links into dependency edges", func() {
			model.AddOrUpdateContainer(declared("web", map[string]string{"db": "database"}))
			model.AddOrUpdateContainer(declared("db", nil))

			model.LinkContainers()

			gomega.Expect(edges(model)).To(gomega.Equal(map[string][]string{
				"web": {"db"},
				"db":  {},
			}))
			gomega.Expect(model.Dependents("db")).To(gomega.Equal([]string{"web"}))
		})

		ginkgo.It("is idempotent and drops self and missing links", func() {
			model.AddOrUpdateContainer(declared("web", map[string]string{
				"db":      "db",
				"web":     "self",
				"missing": "missing",
			}))
			model.AddOrUpdateContainer(declared("db", nil))

			model.LinkContainers()
			once := edges(model)

			for range 3 {
				model.LinkContainers()
			}

			gomega.Expect(edges(model)).To(gomega.Equal(once))
			gomega.Expect(once["web"]).To(gomega.Equal([]string{"db"}))
		})

		ginkgo.It("never adds edges to entries loaded from the environment", func() {
			model.AddOrUpdateContainer(declared("db", nil))
			entry, _ := live("myproj_web_1", mocks.WithLinks("/myproj_db_1:/myproj_web_1/db"))
			model.AddOrUpdateContainer(entry)
			gomega.Expect(entry.Links()).To(gomega.HaveKey("myproj_db_1"))

			model.AddOrUpdateContainer(declared("cache", nil))
			model.AddOrUpdateContainer(compose.NewEntryFromContainer(
				mocks.NewContainer("myproj_api_1", mocks.WithLinks("/db:/myproj_api_1/db")), project))

			model.LinkContainers()

			api, _ := model.Get("api")
			gomega.Expect(api.Links()).To(gomega.HaveKey("db"))
			gomega.Expect(api.Dependencies()).To(gomega.BeEmpty())
			gomega.Expect(entry.Dependencies()).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetContainersBy", func() {
		ginkgo.BeforeEach(func() {
			model.AddOrUpdateContainer(declared("web", nil))
			model.AddOrUpdateContainer(declared("db", nil))
			model.AddOrUpdateContainer(compose.NewEntry(types.ServiceDefinition{
				Name:      "worker",
				Image:     "worker:latest",
				CPUShares: 512,
			}, project))
		})

		ginkgo.It("returns every entry for empty criteria", func() {
			gomega.Expect(labels(model.GetContainersBy(types.Criteria{}))).
				To(gomega.Equal([]string{"db", "web", "worker"}))
		})

		ginkgo.It("filters by label", func() {
			gomega.Expect(labels(model.GetContainersBy(types.Criteria{types.AttrLabel: "web"}))).
				To(gomega.Equal([]string{"web"}))
		})

		ginkgo.It("compares numeric attributes after conversion", func() {
			gomega.Expect(labels(model.GetContainersBy(types.Criteria{types.AttrCPUShares: 512}))).
				To(gomega.Equal([]string{"worker"}))
		})

		ginkgo.It("requires every criterion to match", func() {
			gomega.Expect(model.GetContainersBy(types.Criteria{
				types.AttrLabel: "web",
				types.AttrImage: "db:latest",
			})).To(gomega.BeEmpty())
		})

		ginkgo.It("filters by provenance", func() {
			entry, _ := live("myproj_cache_1")
			model.AddOrUpdateContainer(entry)

			gomega.Expect(labels(model.GetContainersBy(types.Criteria{
				types.AttrLoadedFromEnvironment: true,
			}))).To(gomega.Equal([]string{"cache"}))
		})

		ginkgo.It("never matches unknown attribute keys", func() {
			gomega.Expect(model.GetContainersBy(types.Criteria{"nonexistent": "x"})).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetContainersByGivenName", func() {
		ginkgo.It("matches generated names of the service", func() {
			for _, name := range []string{"myproj_db_1", "myproj_db_2", "myproj_cache_1"} {
				model.AddOrUpdateContainer(compose.NewEntry(types.ServiceDefinition{
					Name:          name,
					ContainerName: name,
				}, project))
			}

			gomega.Expect(labels(model.GetContainersByGivenName("db"))).
				To(gomega.Equal([]string{"myproj_db_1", "myproj_db_2"}))
		})

		ginkgo.It("returns nothing without a matching name", func() {
			entry, _ := live("myproj_cache_1")
			model.AddOrUpdateContainer(entry)

			gomega.Expect(model.GetContainersByGivenName("db")).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("bulk actions", func() {
		var containers map[string]*mocks.Container

		ginkgo.BeforeEach(func() {
			containers = map[string]*mocks.Container{}

			for _, label := range []string{"a", "b", "c"} {
				entry, container := live("myproj_" + label + "_1")
				containers[label] = container
				model.AddOrUpdateContainer(entry)
			}
		})

		ginkgo.It("deletes every entry when no labels are given", func() {
			report := model.Delete(ctx)

			gomega.Expect(report.Err()).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Succeeded()).To(gomega.Equal([]string{"a", "b", "c"}))
			gomega.Expect(model.Len()).To(gomega.BeZero())

			for _, container := range containers {
				gomega.Expect(container.Calls()).To(gomega.Equal([]string{"remove"}))
			}
		})

		ginkgo.It("deletes only the named entries", func() {
			report := model.Delete(ctx, "b")

			gomega.Expect(report.Labels()).To(gomega.Equal([]string{"b"}))
			gomega.Expect(model.Labels()).To(gomega.Equal([]string{"a", "c"}))
			gomega.Expect(containers["a"].Calls()).To(gomega.BeEmpty())
			gomega.Expect(containers["b"].Calls()).To(gomega.Equal([]string{"remove"}))
		})

		ginkgo.It("drops failed deletions from the model and reports them", func() {
			fault := errors.New("engine unavailable")
			containers["b"].Errors["remove"] = fault

			report := model.Delete(ctx)

			gomega.Expect(model.Len()).To(gomega.BeZero())
			gomega.Expect(report.Succeeded()).To(gomega.Equal([]string{"a", "c"}))
			gomega.Expect(report.Failed()).To(gomega.HaveKey("b"))
			gomega.Expect(report.Err()).To(gomega.MatchError(fault))

			var actionErr *compose.ActionError
			gomega.Expect(errors.As(report.Err(), &actionErr)).To(gomega.BeTrue())
			gomega.Expect(actionErr.Label).To(gomega.Equal("b"))
			gomega.Expect(actionErr.Action).To(gomega.Equal(compose.ActionDelete))
		})

		ginkgo.It("keeps an entry replaced while the delete is in flight", func() {
			replacement, _ := live("myproj_b_2")
			containers["b"].OnCall = func(string) {
				model.AddOrUpdateContainer(replacement)
			}

			report := model.Delete(ctx)

			gomega.Expect(report.Succeeded()).To(gomega.Equal([]string{"a", "b", "c"}))
			gomega.Expect(model.Labels()).To(gomega.Equal([]string{"b"}))

			current, _ := model.Get("b")
			gomega.Expect(current).To(gomega.BeIdenticalTo(replacement))
		})

		ginkgo.It("attempts every entry despite failures", func() {
			containers["a"].Errors["stop"] = errors.New("timeout")

			report := model.Stop(ctx)

			gomega.Expect(report.Len()).To(gomega.Equal(3))
			gomega.Expect(report.Succeeded()).To(gomega.Equal([]string{"b", "c"}))
			gomega.Expect(containers["c"].Calls()).To(gomega.Equal([]string{"stop"}))
			gomega.Expect(model.Len()).To(gomega.Equal(3))
		})

		ginkgo.It("routes start and kill to the backing containers", func() {
			gomega.Expect(model.Start(ctx, "a", "a").Err()).NotTo(gomega.HaveOccurred())
			gomega.Expect(model.Kill(ctx, "a", "unknown").Err()).NotTo(gomega.HaveOccurred())

			gomega.Expect(containers["a"].Calls()).To(gomega.Equal([]string{"start", "kill"}))
		})

		ginkgo.It("reports entries without a backing container", func() {
			model.AddOrUpdateContainer(declared("d", nil))

			report := model.Start(ctx, "d")

			err, ok := report.Outcome("d")
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(err).To(gomega.MatchError(compose.ErrNoBackingContainer))
		})
	})

	ginkgo.It("starts nothing on an empty model", func() {
		report := model.Start(ctx)

		gomega.Expect(report.Len()).To(gomega.BeZero())
		gomega.Expect(report.Err()).NotTo(gomega.HaveOccurred())
		gomega.Expect(report.Action()).To(gomega.Equal(compose.ActionStart))
	})
})
