package sorter_test

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/composer/pkg/sorter"
)

var _ = ginkgo.Describe("DetectCycles", func() {
	ginkgo.It("should report every label on a cycle", func() {
		entries := linkedEntries([]string{"a", "b", "c", "d"}, map[string][]string{
			"a": {"b"},
			"b": {"a"},
			"c": {"a"},
		})

		gomega.Expect(sorter.DetectCycles(entries)).To(gomega.Equal(map[string]bool{"a": true, "b": true}))
	})

	ginkgo.It("should report nothing for an acyclic graph", func() {
		entries := linkedEntries([]string{"web", "db"}, map[string][]string{"web": {"db"}})

		gomega.Expect(sorter.DetectCycles(entries)).To(gomega.BeEmpty())
	})
})
