package container

import (
	"context"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	cerrdefs "github.com/containerd/errdefs"
	dockerContainerType "github.com/docker/docker/api/types/container"
	dockerClient "github.com/docker/docker/client"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/container/mocks"
)

const projectLabel = compose.ComposeProjectLabel + "=myproj"

func inspected(id, name string, labels map[string]string) *dockerContainerType.InspectResponse {
	return &dockerContainerType.InspectResponse{
		ContainerJSONBase: &dockerContainerType.ContainerJSONBase{
			ID:         id,
			Name:       "/" + name,
			Image:      "sha256:image",
			State:      &dockerContainerType.State{Running: true},
			HostConfig: &dockerContainerType.HostConfig{},
		},
		Config: &dockerContainerType.Config{
			Image:  "nginx:1.27",
			Cmd:    []string{"nginx", "-g", "daemon off;"},
			Labels: labels,
		},
	}
}

func summary(id, project string) dockerContainerType.Summary {
	return dockerContainerType.Summary{
		ID:     id,
		Labels: map[string]string{compose.ComposeProjectLabel: project},
	}
}

var _ = ginkgo.Describe("the client", func() {
	var (
		ctx        context.Context
		docker     *dockerClient.Client
		mockServer *ghttp.Server
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockServer = ghttp.NewServer()
		docker, _ = dockerClient.NewClientWithOpts(
			dockerClient.WithHost(mockServer.URL()),
			dockerClient.WithHTTPClient(mockServer.HTTPTestServer.Client()))
	})

	ginkgo.AfterEach(func() {
		mockServer.Close()
	})

	ginkgo.Describe("ListProjectContainers", func() {
		ginkgo.It("inspects every container of the project", func() {
			labels := map[string]string{compose.ComposeProjectLabel: "myproj"}
			mockServer.AppendHandlers(
				mocks.ListContainersHandler(projectLabel, summary("web-id", "myproj"), summary("db-id", "myproj")),
				mocks.GetContainerHandler("web-id", inspected("web-id", "myproj_web_1", labels)),
				mocks.GetContainerHandler("db-id", inspected("db-id", "myproj_db_1", labels)),
			)

			containers, err := newClient(docker, ClientOptions{}).ListProjectContainers(ctx, "myproj")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(containers).To(gomega.HaveLen(2))
			gomega.Expect(containers[0].Name()).To(gomega.Equal("myproj_web_1"))
			gomega.Expect(containers[1].ContainerInfo().Config.Cmd).To(gomega.HaveLen(3))
		})

		ginkgo.It("skips containers of other projects and vanished containers", func() {
			mockServer.AppendHandlers(
				mocks.ListContainersHandler(projectLabel, summary("other-id", "other"), summary("gone-id", "myproj")),
				mocks.GetContainerHandler("gone-id", nil),
			)

			containers, err := newClient(docker, ClientOptions{}).ListProjectContainers(ctx, "myproj")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(containers).To(gomega.BeEmpty())
		})

		ginkgo.It("returns listing failures", func() {
			mockServer.AppendHandlers(mocks.ServerErrorHandler())

			_, err := newClient(docker, ClientOptions{}).ListProjectContainers(ctx, "myproj")

			gomega.Expect(err).To(gomega.MatchError(errListContainersFailed))
		})
	})

	ginkgo.Describe("container lifecycle", func() {
		var container *Container

		ginkgo.BeforeEach(func() {
			container = NewContainer(inspected("web-id", "myproj_web_1", nil), docker, ClientOptions{
				StopTimeout:   5 * time.Second,
				RemoveVolumes: true,
			})
		})

		ginkgo.It("exposes identity and state", func() {
			gomega.Expect(container.ID()).To(gomega.BeEquivalentTo("web-id"))
			gomega.Expect(container.Name()).To(gomega.Equal("myproj_web_1"))
			gomega.Expect(container.IsRunning()).To(gomega.BeTrue())
		})

		ginkgo.It("starts the container", func() {
			mockServer.AppendHandlers(mocks.StartContainerHandler("web-id", mocks.Found))

			gomega.Expect(container.Start(ctx)).To(gomega.Succeed())
		})

		ginkgo.It("stops the container with the configured timeout", func() {
			mockServer.AppendHandlers(mocks.StopContainerHandler("web-id", "5", mocks.Found))

			gomega.Expect(container.Stop(ctx)).To(gomega.Succeed())
		})

		ginkgo.It("kills the container with SIGKILL by default", func() {
			mockServer.AppendHandlers(mocks.KillContainerHandler("web-id", DefaultKillSignal, mocks.Found))

			gomega.Expect(container.Kill(ctx)).To(gomega.Succeed())
		})

		ginkgo.It("reports engine faults", func() {
			mockServer.AppendHandlers(mocks.StartContainerHandler("web-id", mocks.Missing))

			err := container.Start(ctx)

			gomega.Expect(err).To(gomega.MatchError(errStartContainerFailed))
			gomega.Expect(cerrdefs.IsNotFound(err)).To(gomega.BeTrue())
		})

		ginkgo.It("force-removes the container", func() {
			mockServer.AppendHandlers(mocks.RemoveContainerHandler("web-id", mocks.Found))

			gomega.Expect(container.Remove(ctx)).To(gomega.Succeed())
		})

		ginkgo.It("treats an already removed container as removed", func() {
			mockServer.AppendHandlers(mocks.RemoveContainerHandler("web-id", mocks.Missing))

			gomega.Expect(container.Remove(ctx)).To(gomega.Succeed())
		})
	})
})
