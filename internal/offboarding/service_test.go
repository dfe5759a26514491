package offboarding_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	offboardingDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/offboarding"
	systemDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/system"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	"github.com/frahmantamala/access-management/internal/core/events"
	"github.com/frahmantamala/access-management/internal/offboarding"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOffboardingService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Offboarding Service Suite")
}

// MockRepository implements offboarding.RepositoryAPI. It also tracks a
// grants table so completion can be observed revoking, mirroring the
// single transaction the real repository runs.
type MockRepository struct {
	requests         map[string]*offboardingDatamodel.Request
	selections       map[string][]*offboardingDatamodel.RequestSystem
	grants           map[string][]string // userID -> systemIDs
	revokedAllFor    []string
	revokedSubsetFor map[string][]string
	completeErr      error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		requests:         make(map[string]*offboardingDatamodel.Request),
		selections:       make(map[string][]*offboardingDatamodel.RequestSystem),
		grants:           make(map[string][]string),
		revokedSubsetFor: make(map[string][]string),
	}
}

func (m *MockRepository) AddGrant(userID, systemID string) {
	m.grants[userID] = append(m.grants[userID], systemID)
}

func (m *MockRepository) Create(req *offboardingDatamodel.Request, systems []*offboardingDatamodel.RequestSystem) error {
	m.requests[req.ID] = req
	m.selections[req.ID] = systems
	return nil
}

func (m *MockRepository) GetByID(id string) (*offboardingDatamodel.Request, error) {
	return m.requests[id], nil
}

func (m *MockRepository) GetAll() ([]*offboardingDatamodel.Request, error) {
	var result []*offboardingDatamodel.Request
	for _, req := range m.requests {
		result = append(result, req)
	}
	return result, nil
}

func (m *MockRepository) GetByStatus(status string) ([]*offboardingDatamodel.Request, error) {
	var result []*offboardingDatamodel.Request
	for _, req := range m.requests {
		if req.Status == status {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *MockRepository) GetRequestSystems(requestID string) ([]*offboardingDatamodel.RequestSystem, error) {
	return m.selections[requestID], nil
}

func (m *MockRepository) Complete(id, userID string, systemIDs []string, allSystems bool, completedAt time.Time) (int64, error) {
	if m.completeErr != nil {
		return 0, m.completeErr
	}

	var revoked int64
	if allSystems {
		m.revokedAllFor = append(m.revokedAllFor, userID)
		revoked = int64(len(m.grants[userID]))
		delete(m.grants, userID)
	} else {
		m.revokedSubsetFor[userID] = append(m.revokedSubsetFor[userID], systemIDs...)
		var remaining []string
		for _, held := range m.grants[userID] {
			matched := false
			for _, sysID := range systemIDs {
				if held == sysID {
					matched = true
					break
				}
			}
			if matched {
				revoked++
			} else {
				remaining = append(remaining, held)
			}
		}
		m.grants[userID] = remaining
	}

	if req, ok := m.requests[id]; ok {
		req.Status = offboarding.StatusCompleted
		req.CompletedAt = &completedAt
	}
	return revoked, nil
}

// MockUserStore implements offboarding.UserStore
type MockUserStore struct {
	users map[string]*userDatamodel.User
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[string]*userDatamodel.User)}
}

func (m *MockUserStore) AddUser(id, name, email string) {
	m.users[id] = &userDatamodel.User{ID: id, Name: name, Email: email, IsActive: true}
}

func (m *MockUserStore) GetByID(id string) (*userDatamodel.User, error) {
	return m.users[id], nil
}

// MockSystemStore implements offboarding.SystemStore
type MockSystemStore struct {
	systems map[string]*systemDatamodel.System
}

func NewMockSystemStore() *MockSystemStore {
	return &MockSystemStore{systems: make(map[string]*systemDatamodel.System)}
}

func (m *MockSystemStore) AddSystem(id, name string) {
	m.systems[id] = &systemDatamodel.System{ID: id, Name: name}
}

func (m *MockSystemStore) GetByID(id string) (*systemDatamodel.System, error) {
	return m.systems[id], nil
}

// MockAuthorizer implements offboarding.Authorizer
type MockAuthorizer struct {
	admins map[string]bool
}

func NewMockAuthorizer() *MockAuthorizer {
	return &MockAuthorizer{admins: make(map[string]bool)}
}

func (m *MockAuthorizer) MakeAdmin(userID string)          { m.admins[userID] = true }
func (m *MockAuthorizer) IsGlobalAdmin(userID string) bool { return m.admins[userID] }

var _ = Describe("Offboarding Service", func() {
	var (
		mockRepo    *MockRepository
		mockUsers   *MockUserStore
		mockSystems *MockSystemStore
		mockAuthz   *MockAuthorizer
		service     *offboarding.Service
		ctx         context.Context
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = NewMockRepository()
		mockUsers = NewMockUserStore()
		mockSystems = NewMockSystemStore()
		mockAuthz = NewMockAuthorizer()
		bus := events.NewEventBus(lg)
		service = offboarding.NewService(mockRepo, mockUsers, mockSystems, mockAuthz, bus, lg)
		ctx = context.Background()

		mockUsers.AddUser("admin-1", "John Admin", "john.admin@company.com")
		mockUsers.AddUser("robert-1", "Robert Taylor", "robert.taylor@company.com")
		mockAuthz.MakeAdmin("admin-1")

		mockSystems.AddSystem("sys-workday", "Workday")
		mockSystems.AddSystem("sys-jira", "Jira")
	})

	Describe("CreateRequest", func() {
		Context("covering all systems", func() {
			It("should start pending with no explicit selections", func() {
				req, err := service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
					UserID:      "robert-1",
					AllSystems:  true,
					RemovalDate: "2026-09-30",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(req.Status).To(Equal(offboarding.StatusPending))
				Expect(req.AllSystems).To(BeTrue())
				Expect(req.SystemIDs).To(BeEmpty())
				Expect(req.UserName).To(Equal("Robert Taylor"))
			})

			It("should ignore any system ids passed alongside", func() {
				req, err := service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
					UserID:      "robert-1",
					AllSystems:  true,
					SystemIDs:   []string{"sys-workday"},
					RemovalDate: "2026-09-30",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(req.SystemIDs).To(BeEmpty())
			})
		})

		Context("covering an explicit subset", func() {
			It("should record the selected systems in order", func() {
				req, err := service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
					UserID:      "robert-1",
					SystemIDs:   []string{"sys-workday", "sys-jira"},
					RemovalDate: "2026-09-30",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(req.SystemIDs).To(Equal([]string{"sys-workday", "sys-jira"}))
				Expect(req.SystemNames).To(Equal([]string{"Workday", "Jira"}))
			})

			It("should reject an empty selection", func() {
				_, err := service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
					UserID:      "robert-1",
					RemovalDate: "2026-09-30",
				})
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with an unknown target user", func() {
			It("should return not found", func() {
				_, err := service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
					UserID:      "ghost",
					AllSystems:  true,
					RemovalDate: "2026-09-30",
				})
				Expect(err).To(MatchError(offboarding.ErrUserNotFound))
			})
		})

		Context("with a malformed removal date", func() {
			It("should fail validation", func() {
				_, err := service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
					UserID:      "robert-1",
					AllSystems:  true,
					RemovalDate: "soon",
				})
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("CompleteRequest", func() {
		var requestID string

		BeforeEach(func() {
			mockRepo.AddGrant("robert-1", "sys-workday")
			mockRepo.AddGrant("robert-1", "sys-jira")

			req, err := service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
				UserID:      "robert-1",
				AllSystems:  true,
				RemovalDate: "2026-09-30",
			})
			Expect(err).NotTo(HaveOccurred())
			requestID = req.ID
		})

		Context("when an admin completes an all-systems request", func() {
			It("should flip status and revoke every grant", func() {
				req, err := service.CompleteRequest(ctx, "admin-1", requestID)
				Expect(err).NotTo(HaveOccurred())
				Expect(req.Status).To(Equal(offboarding.StatusCompleted))
				Expect(req.CompletedAt).NotTo(BeNil())
				Expect(mockRepo.revokedAllFor).To(ContainElement("robert-1"))
				Expect(mockRepo.grants["robert-1"]).To(BeEmpty())
			})

			It("should be a no-op on the second call", func() {
				_, err := service.CompleteRequest(ctx, "admin-1", requestID)
				Expect(err).NotTo(HaveOccurred())

				req, err := service.CompleteRequest(ctx, "admin-1", requestID)
				Expect(err).NotTo(HaveOccurred())
				Expect(req.Status).To(Equal(offboarding.StatusCompleted))
				// Revocation ran once, not twice.
				Expect(mockRepo.revokedAllFor).To(HaveLen(1))
			})
		})

		Context("when a subset request completes", func() {
			It("should revoke only the selected systems", func() {
				mockRepo.AddGrant("robert-1", "sys-extra")

				req, err := service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
					UserID:      "robert-1",
					SystemIDs:   []string{"sys-workday"},
					RemovalDate: "2026-09-30",
				})
				Expect(err).NotTo(HaveOccurred())

				_, err = service.CompleteRequest(ctx, "admin-1", req.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(mockRepo.revokedSubsetFor["robert-1"]).To(Equal([]string{"sys-workday"}))
				Expect(mockRepo.grants["robert-1"]).NotTo(ContainElement("sys-workday"))
				Expect(mockRepo.grants["robert-1"]).To(ContainElement("sys-extra"))
			})
		})

		Context("when the completion write fails", func() {
			It("should leave the request pending and the grants in place", func() {
				mockRepo.completeErr = errors.New("connection reset")

				_, err := service.CompleteRequest(ctx, "admin-1", requestID)
				Expect(err).To(HaveOccurred())
				Expect(mockRepo.requests[requestID].Status).To(Equal(offboarding.StatusPending))
				Expect(mockRepo.grants["robert-1"]).To(HaveLen(2))
			})
		})

		Context("when a non-admin tries to complete", func() {
			It("should reject", func() {
				_, err := service.CompleteRequest(ctx, "robert-1", requestID)
				Expect(err).To(MatchError(offboarding.ErrAdminOnly))
				Expect(mockRepo.requests[requestID].Status).To(Equal(offboarding.StatusPending))
			})
		})

		Context("when the request does not exist", func() {
			It("should return not found", func() {
				_, err := service.CompleteRequest(ctx, "admin-1", "nope")
				Expect(err).To(MatchError(offboarding.ErrRequestNotFound))
			})
		})
	})

	Describe("ListRequests", func() {
		BeforeEach(func() {
			req, err := service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
				UserID:      "robert-1",
				AllSystems:  true,
				RemovalDate: "2026-09-30",
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateRequest("admin-1", offboarding.CreateRequestDTO{
				UserID:      "robert-1",
				SystemIDs:   []string{"sys-jira"},
				RemovalDate: "2026-10-15",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CompleteRequest(ctx, "admin-1", req.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return everything without a filter", func() {
			requests, err := service.ListRequests("")
			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(2))
		})

		It("should filter by status", func() {
			pending, err := service.ListRequests(offboarding.StatusPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].SystemNames).To(Equal([]string{"Jira"}))

			completed, err := service.ListRequests(offboarding.StatusCompleted)
			Expect(err).NotTo(HaveOccurred())
			Expect(completed).To(HaveLen(1))
			Expect(completed[0].AllSystems).To(BeTrue())
		})
	})
})
