package system_test

import (
	"github.com/frahmantamala/access-management/internal/system"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("System search and ordering", func() {
	named := func(name string) *system.System {
		return &system.System{Name: name}
	}

	Describe("MatchesSearch", func() {
		sys := &system.System{
			Name:        "Workday",
			Description: "HR management platform",
			Owner: system.OwnerRef{
				Name:  "Jane Smith",
				Email: "jane.smith@company.com",
			},
		}

		It("matches everything on empty query", func() {
			Expect(system.MatchesSearch(sys, "")).To(BeTrue())
		})

		It("matches the description", func() {
			Expect(system.MatchesSearch(sys, "management")).To(BeTrue())
		})

		It("matches the owner email ignoring case", func() {
			Expect(system.MatchesSearch(sys, "JANE.SMITH@")).To(BeTrue())
		})

		It("rejects non-substrings", func() {
			Expect(system.MatchesSearch(sys, "salesforce")).To(BeFalse())
		})
	})

	Describe("SortByName", func() {
		It("orders case-insensitively with empty names first", func() {
			systems := []*system.System{
				named("workday"),
				named(""),
				named("Jira"),
				named("salesforce"),
			}
			system.SortByName(systems)

			names := make([]string, len(systems))
			for i, s := range systems {
				names[i] = s.Name
			}
			Expect(names).To(Equal([]string{"", "Jira", "salesforce", "workday"}))
		})

		It("keeps equal names stable", func() {
			a := named("Jira")
			b := named("jira")
			systems := []*system.System{a, b}
			system.SortByName(systems)
			Expect(systems[0]).To(BeIdenticalTo(a))
		})
	})
})
