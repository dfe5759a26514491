package system_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	systemDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/system"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	"github.com/frahmantamala/access-management/internal/system"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSystemService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "System Service Suite")
}

// MockRepository implements system.RepositoryAPI for testing
type MockRepository struct {
	systems    map[string]*systemDatamodel.System
	coOwners   map[string][]*systemDatamodel.CoOwner
	fields     map[string][]*systemDatamodel.Field
	deleted    []string
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		systems:  make(map[string]*systemDatamodel.System),
		coOwners: make(map[string][]*systemDatamodel.CoOwner),
		fields:   make(map[string][]*systemDatamodel.Field),
	}
}

func (m *MockRepository) Create(sys *systemDatamodel.System) error {
	if m.shouldFail {
		return m.failError
	}
	m.systems[sys.ID] = sys
	return nil
}

func (m *MockRepository) GetByID(id string) (*systemDatamodel.System, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.systems[id], nil
}

func (m *MockRepository) GetAll() ([]*systemDatamodel.System, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*systemDatamodel.System
	for _, sys := range m.systems {
		result = append(result, sys)
	}
	return result, nil
}

func (m *MockRepository) Update(sys *systemDatamodel.System) error {
	if m.shouldFail {
		return m.failError
	}
	m.systems[sys.ID] = sys
	return nil
}

func (m *MockRepository) Delete(id string) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.systems, id)
	delete(m.coOwners, id)
	delete(m.fields, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *MockRepository) GetCoOwners(systemID string) ([]*systemDatamodel.CoOwner, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.coOwners[systemID], nil
}

func (m *MockRepository) AddCoOwner(co *systemDatamodel.CoOwner) error {
	if m.shouldFail {
		return m.failError
	}
	m.coOwners[co.SystemID] = append(m.coOwners[co.SystemID], co)
	return nil
}

func (m *MockRepository) RemoveCoOwner(systemID, userID string) error {
	if m.shouldFail {
		return m.failError
	}
	remaining := m.coOwners[systemID][:0]
	for _, co := range m.coOwners[systemID] {
		if co.UserID != userID {
			remaining = append(remaining, co)
		}
	}
	m.coOwners[systemID] = remaining
	return nil
}

func (m *MockRepository) ListFields(systemID string) ([]*systemDatamodel.Field, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.fields[systemID], nil
}

func (m *MockRepository) GetFieldByID(systemID, fieldID string) (*systemDatamodel.Field, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, f := range m.fields[systemID] {
		if f.ID == fieldID {
			return f, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetFieldByName(systemID, name string) (*systemDatamodel.Field, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, f := range m.fields[systemID] {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) CreateField(f *systemDatamodel.Field) error {
	if m.shouldFail {
		return m.failError
	}
	m.fields[f.SystemID] = append(m.fields[f.SystemID], f)
	return nil
}

func (m *MockRepository) UpdateField(f *systemDatamodel.Field) error {
	if m.shouldFail {
		return m.failError
	}
	for i, existing := range m.fields[f.SystemID] {
		if existing.ID == f.ID {
			m.fields[f.SystemID][i] = f
			return nil
		}
	}
	return nil
}

func (m *MockRepository) DeleteField(systemID, fieldID string) error {
	if m.shouldFail {
		return m.failError
	}
	remaining := m.fields[systemID][:0]
	for _, f := range m.fields[systemID] {
		if f.ID != fieldID {
			remaining = append(remaining, f)
		}
	}
	m.fields[systemID] = remaining
	return nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

// MockUserDirectory implements system.UserDirectory
type MockUserDirectory struct {
	users map[string]*userDatamodel.User
}

func NewMockUserDirectory() *MockUserDirectory {
	return &MockUserDirectory{users: make(map[string]*userDatamodel.User)}
}

func (m *MockUserDirectory) AddUser(id, name, email string) {
	m.users[id] = &userDatamodel.User{ID: id, Name: name, Email: email, IsActive: true}
}

func (m *MockUserDirectory) GetByID(id string) (*userDatamodel.User, error) {
	return m.users[id], nil
}

// MockAuthorizer implements system.Authorizer with explicit grants
type MockAuthorizer struct {
	admins   map[string]bool
	managers map[string]bool // key: userID + "/" + systemID
}

func NewMockAuthorizer() *MockAuthorizer {
	return &MockAuthorizer{
		admins:   make(map[string]bool),
		managers: make(map[string]bool),
	}
}

func (m *MockAuthorizer) MakeAdmin(userID string)              { m.admins[userID] = true }
func (m *MockAuthorizer) AllowManage(userID, systemID string)  { m.managers[userID+"/"+systemID] = true }
func (m *MockAuthorizer) IsGlobalAdmin(userID string) bool     { return m.admins[userID] }
func (m *MockAuthorizer) CanDeleteSystem(userID string) bool   { return m.admins[userID] }
func (m *MockAuthorizer) CanManageSystem(userID, systemID string) bool {
	return m.admins[userID] || m.managers[userID+"/"+systemID]
}

var _ = Describe("System Service", func() {
	var (
		mockRepo  *MockRepository
		mockUsers *MockUserDirectory
		mockAuthz *MockAuthorizer
		service   *system.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockUsers = NewMockUserDirectory()
		mockAuthz = NewMockAuthorizer()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = system.NewService(mockRepo, mockUsers, mockAuthz, lg)

		mockUsers.AddUser("admin-1", "John Admin", "john.admin@company.com")
		mockUsers.AddUser("owner-1", "Jane Smith", "jane.smith@company.com")
		mockUsers.AddUser("member-1", "Mike Johnson", "mike.johnson@company.com")
		mockAuthz.MakeAdmin("admin-1")
	})

	addSystem := func(id, name, ownerID string) {
		now := time.Now()
		mockRepo.systems[id] = &systemDatamodel.System{
			ID:        id,
			Name:      name,
			Category:  system.CategoryHR,
			OwnerID:   ownerID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	Describe("CreateSystem", func() {
		validDTO := system.CreateSystemDTO{
			Name:        "Workday",
			Description: "HR management platform",
			Category:    system.CategoryHR,
			OwnerID:     "owner-1",
		}

		Context("when actor is admin", func() {
			It("should create the system with the owner resolved", func() {
				created, err := service.CreateSystem("admin-1", validDTO)
				Expect(err).NotTo(HaveOccurred())
				Expect(created.ID).NotTo(BeEmpty())
				Expect(created.Name).To(Equal("Workday"))
				Expect(created.Owner.UserID).To(Equal("owner-1"))
				Expect(created.Owner.Name).To(Equal("Jane Smith"))
			})
		})

		Context("when actor is not admin", func() {
			It("should reject with admin-only error", func() {
				_, err := service.CreateSystem("member-1", validDTO)
				Expect(err).To(MatchError(system.ErrAdminOnly))
			})
		})

		Context("when owner does not exist", func() {
			It("should reject with owner not found", func() {
				dto := validDTO
				dto.OwnerID = "ghost"
				_, err := service.CreateSystem("admin-1", dto)
				Expect(err).To(MatchError(system.ErrOwnerNotFound))
			})
		})

		Context("when category is unknown", func() {
			It("should fail validation", func() {
				dto := validDTO
				dto.Category = "Gardening"
				_, err := service.CreateSystem("admin-1", dto)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("GetSystem", func() {
		Context("when the system exists", func() {
			BeforeEach(func() {
				addSystem("sys-1", "Workday", "owner-1")
			})

			It("should return it with owner details", func() {
				sys, err := service.GetSystem("sys-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(sys.Name).To(Equal("Workday"))
				Expect(sys.Owner.Email).To(Equal("jane.smith@company.com"))
			})
		})

		Context("when the system is missing", func() {
			It("should return not found", func() {
				_, err := service.GetSystem("nope")
				Expect(err).To(MatchError(system.ErrSystemNotFound))
			})
		})

		Context("when the owner row is gone", func() {
			BeforeEach(func() {
				addSystem("sys-2", "Legacy", "deleted-user")
			})

			It("should still return the system with an id-only owner", func() {
				sys, err := service.GetSystem("sys-2")
				Expect(err).NotTo(HaveOccurred())
				Expect(sys.Owner.UserID).To(Equal("deleted-user"))
				Expect(sys.Owner.Name).To(BeEmpty())
			})
		})
	})

	Describe("ListSystems", func() {
		BeforeEach(func() {
			addSystem("sys-1", "Workday", "owner-1")
			addSystem("sys-2", "Salesforce", "owner-1")
			addSystem("sys-3", "Jira", "member-1")
			mockRepo.systems["sys-2"].Category = system.CategorySales
			mockRepo.systems["sys-3"].Category = system.CategoryIT
		})

		It("should return all systems sorted by name", func() {
			systems, err := service.ListSystems("", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(systems).To(HaveLen(3))
			Expect(systems[0].Name).To(Equal("Jira"))
			Expect(systems[1].Name).To(Equal("Salesforce"))
			Expect(systems[2].Name).To(Equal("Workday"))
		})

		It("should filter by case-insensitive substring", func() {
			systems, err := service.ListSystems("WORK", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(systems).To(HaveLen(1))
			Expect(systems[0].Name).To(Equal("Workday"))
		})

		It("should match on owner name", func() {
			systems, err := service.ListSystems("jane", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(systems).To(HaveLen(2))
		})

		It("should filter by exact category", func() {
			systems, err := service.ListSystems("", system.CategorySales)
			Expect(err).NotTo(HaveOccurred())
			Expect(systems).To(HaveLen(1))
			Expect(systems[0].Name).To(Equal("Salesforce"))
		})

		It("should treat All as a wildcard category", func() {
			systems, err := service.ListSystems("", system.CategoryAll)
			Expect(err).NotTo(HaveOccurred())
			Expect(systems).To(HaveLen(3))
		})
	})

	Describe("UpdateSystem", func() {
		BeforeEach(func() {
			addSystem("sys-1", "Workday", "owner-1")
			mockAuthz.AllowManage("owner-1", "sys-1")
		})

		Context("when actor can manage the system", func() {
			It("should apply partial updates", func() {
				newDesc := "Updated description"
				updated, err := service.UpdateSystem("owner-1", "sys-1", system.UpdateSystemDTO{
					Description: &newDesc,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Description).To(Equal("Updated description"))
				Expect(updated.Name).To(Equal("Workday"))
			})
		})

		Context("when actor is a plain member", func() {
			It("should reject", func() {
				name := "Hijacked"
				_, err := service.UpdateSystem("member-1", "sys-1", system.UpdateSystemDTO{Name: &name})
				Expect(err).To(MatchError(system.ErrNotAuthorized))
			})
		})

		Context("when reassigning to a missing owner", func() {
			It("should reject", func() {
				ghost := "ghost"
				_, err := service.UpdateSystem("admin-1", "sys-1", system.UpdateSystemDTO{OwnerID: &ghost})
				Expect(err).To(MatchError(system.ErrOwnerNotFound))
			})
		})
	})

	Describe("DeleteSystem", func() {
		BeforeEach(func() {
			addSystem("sys-1", "Workday", "owner-1")
			mockAuthz.AllowManage("owner-1", "sys-1")
		})

		Context("when actor is admin", func() {
			It("should delete", func() {
				Expect(service.DeleteSystem("admin-1", "sys-1")).To(Succeed())
				Expect(mockRepo.deleted).To(ContainElement("sys-1"))
			})
		})

		Context("when actor is the owner", func() {
			It("should still reject, deletion is admin only", func() {
				err := service.DeleteSystem("owner-1", "sys-1")
				Expect(err).To(MatchError(system.ErrAdminOnly))
			})
		})

		Context("when the system is missing", func() {
			It("should return not found", func() {
				err := service.DeleteSystem("admin-1", "nope")
				Expect(err).To(MatchError(system.ErrSystemNotFound))
			})
		})
	})

	Describe("co-owner management", func() {
		BeforeEach(func() {
			addSystem("sys-1", "Workday", "owner-1")
			mockAuthz.AllowManage("owner-1", "sys-1")
		})

		It("should add a co-owner and expose it on the system", func() {
			Expect(service.AddCoOwner("owner-1", "sys-1", "member-1")).To(Succeed())

			sys, err := service.GetSystem("sys-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.CoOwners).To(HaveLen(1))
			Expect(sys.CoOwners[0].UserID).To(Equal("member-1"))
			Expect(sys.CoOwners[0].Name).To(Equal("Mike Johnson"))
		})

		It("should reject the owner as co-owner", func() {
			err := service.AddCoOwner("owner-1", "sys-1", "owner-1")
			Expect(err).To(MatchError(system.ErrOwnerAsCoOwner))
		})

		It("should reject duplicates", func() {
			Expect(service.AddCoOwner("owner-1", "sys-1", "member-1")).To(Succeed())
			err := service.AddCoOwner("owner-1", "sys-1", "member-1")
			Expect(err).To(MatchError(system.ErrDuplicateCoOwner))
		})

		It("should reject unknown users", func() {
			err := service.AddCoOwner("owner-1", "sys-1", "ghost")
			Expect(err).To(MatchError(system.ErrUserNotFound))
		})

		It("should remove an existing co-owner", func() {
			Expect(service.AddCoOwner("owner-1", "sys-1", "member-1")).To(Succeed())
			Expect(service.RemoveCoOwner("owner-1", "sys-1", "member-1")).To(Succeed())

			sys, err := service.GetSystem("sys-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.CoOwners).To(BeEmpty())
		})

		It("should report a missing co-owner on removal", func() {
			err := service.RemoveCoOwner("owner-1", "sys-1", "member-1")
			Expect(err).To(MatchError(system.ErrCoOwnerNotFound))
		})
	})

	Describe("field management", func() {
		BeforeEach(func() {
			addSystem("sys-1", "Workday", "owner-1")
			mockAuthz.AllowManage("owner-1", "sys-1")
		})

		It("should create a field defaulting to text type", func() {
			field, err := service.CreateField("owner-1", "sys-1", system.CreateFieldDTO{Name: "Employee ID"})
			Expect(err).NotTo(HaveOccurred())
			Expect(field.FieldType).To(Equal("text"))
			Expect(field.Name).To(Equal("Employee ID"))
		})

		It("should reject duplicate field names within a system", func() {
			_, err := service.CreateField("owner-1", "sys-1", system.CreateFieldDTO{Name: "Employee ID"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateField("owner-1", "sys-1", system.CreateFieldDTO{Name: "Employee ID"})
			Expect(err).To(MatchError(system.ErrDuplicateField))
		})

		It("should rename a field unless the name collides", func() {
			first, err := service.CreateField("owner-1", "sys-1", system.CreateFieldDTO{Name: "Employee ID"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateField("owner-1", "sys-1", system.CreateFieldDTO{Name: "Cost Center"})
			Expect(err).NotTo(HaveOccurred())

			collide := "Cost Center"
			_, err = service.UpdateField("owner-1", "sys-1", first.ID, system.UpdateFieldDTO{Name: &collide})
			Expect(err).To(MatchError(system.ErrDuplicateField))

			renamed := "Badge Number"
			updated, err := service.UpdateField("owner-1", "sys-1", first.ID, system.UpdateFieldDTO{Name: &renamed})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Badge Number"))
		})

		It("should delete a field", func() {
			field, err := service.CreateField("owner-1", "sys-1", system.CreateFieldDTO{Name: "Employee ID"})
			Expect(err).NotTo(HaveOccurred())
			Expect(service.DeleteField("owner-1", "sys-1", field.ID)).To(Succeed())

			fields, err := service.ListFields("sys-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(fields).To(BeEmpty())
		})

		It("should deny field changes to non-managers", func() {
			_, err := service.CreateField("member-1", "sys-1", system.CreateFieldDTO{Name: "Employee ID"})
			Expect(err).To(MatchError(system.ErrNotAuthorized))
		})
	})

	Describe("error propagation", func() {
		It("should surface repository failures from listings", func() {
			mockRepo.SetShouldFail(true, errors.New("database down"))
			_, err := service.ListSystems("", "")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database down"))
		})
	})
})
