package compose_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/compose/mocks"
	"github.com/nicholas-fedor/composer/pkg/types"
)

var _ = ginkgo.Describe("Load", func() {
	var (
		ctx    context.Context
		loader *mocks.Loader
		engine *mocks.Engine
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		loader = &mocks.Loader{Definition: &types.Definition{
			Name: "fromfile",
			Services: []types.ServiceDefinition{
				{Name: "web", Image: "nginx", Links: map[string]string{"db": "db"}},
				{Name: "db", Image: "postgres"},
			},
		}}
		engine = &mocks.Engine{}
	})

	ginkgo.It("links declared services", func() {
		model, err := compose.Load(ctx, compose.LoadOptions{
			Path:        "docker-compose.yml",
			ProjectName: project,
			Loader:      loader,
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		web, _ := model.Get("web")
		db, _ := model.Get("db")
		gomega.Expect(web.Dependencies()).To(gomega.Equal([]string{"db"}))
		gomega.Expect(db.Dependencies()).To(gomega.BeEmpty())
		gomega.Expect(model.ProjectName()).To(gomega.Equal(project))
		gomega.Expect(loader.Paths).To(gomega.Equal([]string{"docker-compose.yml"}))
	})

	ginkgo.It("falls back to the file's project name", func() {
		model, err := compose.Load(ctx, compose.LoadOptions{Loader: loader})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(model.ProjectName()).To(gomega.Equal("fromfile"))
	})

	ginkgo.It("requires a project name", func() {
		loader.Definition.Name = ""

		_, err := compose.Load(ctx, compose.LoadOptions{Loader: loader})
		gomega.Expect(err).To(gomega.MatchError(compose.ErrNoProjectName))
	})

	ginkgo.It("falls back to the default name when nothing names the project", func() {
		loader.Definition.Name = ""

		model, err := compose.Load(ctx, compose.LoadOptions{Loader: loader, DefaultName: "checkout"})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(model.ProjectName()).To(gomega.Equal("checkout"))
	})

	ginkgo.It("prefers the file's name over the default name", func() {
		loader.Definition.Name = "fromfile"

		model, err := compose.Load(ctx, compose.LoadOptions{Loader: loader, DefaultName: "checkout"})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(model.ProjectName()).To(gomega.Equal("fromfile"))
	})

	ginkgo.It("fails with ConfigNotFound for a missing file", func() {
		loader.Err = fmt.Errorf("%w: %s", types.ErrConfigNotFound, "missing.yml")

		_, err := compose.Load(ctx, compose.LoadOptions{Path: "missing.yml", Loader: loader})
		gomega.Expect(errors.Is(err, types.ErrConfigNotFound)).To(gomega.BeTrue())
	})

	ginkgo.It("replaces declared services with running containers", func() {
		running := mocks.NewContainer("myproj_web_1", mocks.WithCmd("nginx", "-g", "daemon off;"))
		engine.Containers = []types.Container{running}

		model, err := compose.Load(ctx, compose.LoadOptions{
			ProjectName: project,
			LoadRunning: true,
			Loader:      loader,
			Engine:      engine,
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(engine.Projects).To(gomega.Equal([]string{project}))

		web, _ := model.Get("web")
		gomega.Expect(web.LoadedFromEnvironment()).To(gomega.BeTrue())
		gomega.Expect(web.Dependencies()).To(gomega.BeEmpty())
		gomega.Expect(web.Attributes().Command).To(gomega.Equal("nginx -g daemon off;"))
		gomega.Expect(model.Len()).To(gomega.Equal(2))
	})

	ginkgo.It("orders running containers by their engine links", func() {
		web := mocks.NewContainer("myproj_web_1", mocks.WithLinks("/myproj_db_1:/myproj_web_1/db"))
		db := mocks.NewContainer("myproj_db_1")
		worker := mocks.NewContainer("myproj_worker_1", mocks.WithLabels(map[string]string{
			compose.ComposeDependsOnLabel: "db:service_started:false,queue:service_started:false",
		}))
		engine.Containers = []types.Container{web, db, worker}

		model, err := compose.Load(ctx, compose.LoadOptions{
			ProjectName: project,
			LoadRunning: true,
			Loader:      loader,
			Engine:      engine,
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		entry, _ := model.Get("web")
		gomega.Expect(entry.LoadedFromEnvironment()).To(gomega.BeTrue())
		gomega.Expect(entry.Dependencies()).To(gomega.BeEmpty())
		gomega.Expect(model.Requires("web")).To(gomega.Equal([]string{"db"}))
		gomega.Expect(model.Requires("worker")).To(gomega.Equal([]string{"db"}))
		gomega.Expect(model.Requires("missing")).To(gomega.BeNil())
		gomega.Expect(model.Dependents("db")).To(gomega.Equal([]string{"web", "worker"}))
	})

	ginkgo.It("validates its collaborators", func() {
		_, err := compose.Load(ctx, compose.LoadOptions{})
		gomega.Expect(err).To(gomega.MatchError(compose.ErrNoLoader))

		_, err = compose.Load(ctx, compose.LoadOptions{Loader: loader, LoadRunning: true})
		gomega.Expect(err).To(gomega.MatchError(compose.ErrNoEngine))
	})

	ginkgo.It("surfaces engine listing failures", func() {
		engine.Err = errors.New("daemon down")

		_, err := compose.Load(ctx, compose.LoadOptions{
			ProjectName: project,
			LoadRunning: true,
			Loader:      loader,
			Engine:      engine,
		})
		gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("daemon down")))
	})
})
