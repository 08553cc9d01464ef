package loader_test

import (
	"context"
	"errors"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/nicholas-fedor/composer/pkg/loader"
	"github.com/nicholas-fedor/composer/pkg/types"
)

const composeFile = `
name: myproj
services:
  web:
    image: nginx:1.27
    container_name: myproj_web_1
    command: ["nginx", "-g", "daemon off;"]
    links:
      - db:database
      - cache
    ports:
      - "8080:80"
      - "53:53/udp"
    volumes:
      - data:/var/lib/data
      - /srv/conf:/etc/nginx/conf.d:ro
    environment:
      TAG: ${TAG}
      MODE: production
    labels:
      tier: front
    restart: always
    cpu_shares: 512
    mem_limit: 64m
  db:
    build:
      context: ./db
      dockerfile: Dockerfile.db
    restart: "no"
  cache:
    image: redis
volumes:
  data: {}
`

var _ = ginkgo.Describe("Loader", func() {
	var (
		ctx context.Context
		fs  afero.Fs
		l   *loader.Loader
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		fs = afero.NewMemMapFs()
		l = loader.New(fs, []string{"TAG=v2"})
	})

	ginkgo.It("reports a missing file as ConfigNotFound", func() {
		_, err := l.Load(ctx, "/srv/missing.yml")

		gomega.Expect(errors.Is(err, types.ErrConfigNotFound)).To(gomega.BeTrue())
	})

	ginkgo.It("rejects a file that is not a YAML mapping", func() {
		gomega.Expect(afero.WriteFile(fs, "/srv/bad.yml", []byte("- just\n- a list\n"), 0o644)).To(gomega.Succeed())

		_, err := l.Load(ctx, "/srv/bad.yml")

		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(errors.Is(err, types.ErrConfigNotFound)).To(gomega.BeFalse())
	})

	ginkgo.Context("with a compose file", func() {
		var definition *types.Definition

		ginkgo.BeforeEach(func() {
			gomega.Expect(afero.WriteFile(fs, "/srv/docker-compose.yml", []byte(composeFile), 0o644)).To(gomega.Succeed())

			var err error
			definition, err = l.Load(ctx, "/srv/docker-compose.yml")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("returns the declared name and sorted services", func() {
			gomega.Expect(definition.Name).To(gomega.Equal("myproj"))

			names := []string{}
			for _, service := range definition.Services {
				names = append(names, service.Name)
			}

			gomega.Expect(names).To(gomega.Equal([]string{"cache", "db", "web"}))
		})

		ginkgo.It("flattens service configuration", func() {
			web := definition.Services[2]

			gomega.Expect(web.ContainerName).To(gomega.Equal("myproj_web_1"))
			gomega.Expect(web.Image).To(gomega.Equal("nginx:1.27"))
			gomega.Expect(web.Command).To(gomega.Equal("nginx -g daemon off;"))
			gomega.Expect(web.Links).To(gomega.Equal(map[string]string{"db": "database", "cache": "cache"}))
			gomega.Expect(web.Ports).To(gomega.ConsistOf(
				types.Port{ContainerPort: "80", HostPort: "8080", Protocol: "tcp"},
				types.Port{ContainerPort: "53", HostPort: "53", Protocol: "udp"},
			))
			gomega.Expect(web.Volumes).To(gomega.Equal([]string{
				"data:/var/lib/data",
				"/srv/conf:/etc/nginx/conf.d:ro",
			}))
			gomega.Expect(web.Environment).To(gomega.Equal([]string{"MODE=production", "TAG=v2"}))
			gomega.Expect(web.Labels).To(gomega.HaveKeyWithValue("tier", "front"))
			gomega.Expect(web.Restart).To(gomega.Equal("always"))
			gomega.Expect(web.CPUShares).To(gomega.Equal(int64(512)))
			gomega.Expect(web.MemLimit).To(gomega.Equal(int64(64 * 1024 * 1024)))
		})

		ginkgo.It("keeps build specifications and drops a disabled restart policy", func() {
			db := definition.Services[1]

			gomega.Expect(db.Image).To(gomega.BeEmpty())
			gomega.Expect(db.Build).To(gomega.Equal(&types.Build{Context: "./db", Dockerfile: "Dockerfile.db"}))
			gomega.Expect(db.Restart).To(gomega.BeEmpty())
			gomega.Expect(db.Links).To(gomega.BeNil())
		})
	})

	ginkgo.It("leaves the project name empty when the file declares none", func() {
		gomega.Expect(afero.WriteFile(fs, "/srv/compose.yml", []byte("services:\n  web:\n    image: nginx\n"), 0o644)).
			To(gomega.Succeed())

		definition, err := l.Load(ctx, "/srv/compose.yml")

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(definition.Name).To(gomega.BeEmpty())
		gomega.Expect(definition.Services).To(gomega.HaveLen(1))
	})
})
