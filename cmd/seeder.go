package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"time"

	accessDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/access"
	offboardingDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/offboarding"
	systemDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/system"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	"github.com/frahmantamala/access-management/pkg/logger"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo data",
	Long:  `Seed the database with a demo organization: users, systems, access records, and offboarding requests.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
		lg := logger.LoggerWrapper()

		gormDB, _, err := initDB(cfg.Database, lg)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			if err := clearDemoData(gormDB); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := SeedDemoData(gormDB, lg); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Seeding done")
	},
}

// migrateDemoSchema creates the schema for the self-contained demo
// mode. Postgres deployments go through the versioned migrations
// instead.
func migrateDemoSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&userDatamodel.User{},
		&systemDatamodel.System{},
		&systemDatamodel.CoOwner{},
		&systemDatamodel.Field{},
		&accessDatamodel.Record{},
		&offboardingDatamodel.Request{},
		&offboardingDatamodel.RequestSystem{},
	)
}

func clearDemoData(db *gorm.DB) error {
	// Child tables first.
	tables := []string{
		"offboarding_request_systems",
		"offboarding_requests",
		"access_records",
		"system_fields",
		"system_co_owners",
		"systems",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func strptr(s string) *string { return &s }

func demoDate(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic("bad demo date: " + value)
	}
	return t
}

// SeedDemoData loads a small demo organization. It is a no-op when
// users already exist, so sqlite boots and repeated seed runs stay
// safe.
func SeedDemoData(db *gorm.DB, lg *slog.Logger) error {
	var count int64
	if err := db.Model(&userDatamodel.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		lg.Info("demo data already present, skipping seed", "users", count)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()

	// IT runs the directory, so its members administer the app itself.
	users := []userDatamodel.User{
		{ID: "1", Name: "John Doe", Email: "john.doe@company.com", Department: "IT", Role: userDatamodel.RoleAdmin},
		{ID: "2", Name: "Jane Smith", Email: "jane.smith@company.com", Department: "HR", Role: userDatamodel.RoleMember},
		{ID: "3", Name: "Mike Johnson", Email: "mike.johnson@company.com", Department: "Finance", Role: userDatamodel.RoleMember},
		{ID: "4", Name: "Sarah Williams", Email: "sarah.williams@company.com", Department: "Operations", Role: userDatamodel.RoleMember},
		{ID: "5", Name: "Tom Brown", Email: "tom.brown@company.com", Department: "IT", Role: userDatamodel.RoleAdmin},
		{ID: "6", Name: "Emily Davis", Email: "emily.davis@company.com", Department: "HR", Role: userDatamodel.RoleMember},
		{ID: "7", Name: "David Wilson", Email: "david.wilson@company.com", Department: "Finance", Role: userDatamodel.RoleMember},
		{ID: "8", Name: "Lisa Anderson", Email: "lisa.anderson@company.com", Department: "Sales", Role: userDatamodel.RoleMember},
		{ID: "9", Name: "Robert Taylor", Email: "robert.taylor@company.com", Department: "Marketing", Role: userDatamodel.RoleMember},
		{ID: "10", Name: "Maria Garcia", Email: "maria.garcia@company.com", Department: "Operations", Role: userDatamodel.RoleMember},
	}
	for i := range users {
		users[i].PasswordHash = string(hash)
		users[i].IsActive = true
		users[i].CreatedAt = now
		users[i].UpdatedAt = now
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	systems := []systemDatamodel.System{
		{ID: "1", Name: "Workday", Description: "Human Capital Management system for HR processes, payroll, and employee data", Category: "HR", OwnerID: "2"},
		{ID: "2", Name: "SAP Finance", Description: "Enterprise resource planning system for financial management and reporting", Category: "Finance", OwnerID: "3"},
		{ID: "3", Name: "Jira", Description: "Project management and issue tracking tool for software development teams", Category: "IT", OwnerID: "1"},
		{ID: "4", Name: "Salesforce", Description: "Customer relationship management platform for sales and customer service", Category: "Sales", OwnerID: "8"},
		{ID: "5", Name: "Slack", Description: "Team communication and collaboration platform", Category: "IT", OwnerID: "1"},
		{ID: "6", Name: "NetSuite", Description: "Cloud-based ERP system for accounting and business management", Category: "Finance", OwnerID: "7"},
		{ID: "7", Name: "BambooHR", Description: "HR software for employee records, time-off tracking, and performance management", Category: "HR", OwnerID: "6"},
		{ID: "8", Name: "HubSpot", Description: "Marketing automation and CRM platform", Category: "Marketing", OwnerID: "9"},
		{ID: "9", Name: "ServiceNow", Description: "IT service management and operations platform", Category: "IT", OwnerID: "5"},
		{ID: "10", Name: "Monday.com", Description: "Work operating system for project and workflow management", Category: "Operations", OwnerID: "4"},
	}
	for i := range systems {
		systems[i].CreatedAt = now
		systems[i].UpdatedAt = now
	}
	if err := db.Create(&systems).Error; err != nil {
		return fmt.Errorf("failed to seed systems: %w", err)
	}

	coOwners := []systemDatamodel.CoOwner{
		{SystemID: "1", UserID: "6", Position: 0, CreatedAt: now},
		{SystemID: "2", UserID: "7", Position: 0, CreatedAt: now},
		{SystemID: "3", UserID: "5", Position: 0, CreatedAt: now},
	}
	if err := db.Create(&coOwners).Error; err != nil {
		return fmt.Errorf("failed to seed co-owners: %w", err)
	}

	type seedGrant struct {
		id, userID, systemID string
		role                 *string
		granted              string
		tags                 *string
	}
	admin := strptr("Admin")
	member := strptr("User")
	viewer := strptr("Viewer")
	grants := []seedGrant{
		{id: "1", userID: "2", systemID: "1", role: admin, granted: "2024-01-15"},
		{id: "2", userID: "6", systemID: "1", role: member, granted: "2024-02-01"},
		{id: "3", userID: "3", systemID: "1", role: viewer, granted: "2024-03-10"},
		{id: "4", userID: "3", systemID: "2", role: admin, granted: "2024-01-10", tags: strptr("env: prod\ncost-center: fin")},
		{id: "5", userID: "7", systemID: "2", role: member, granted: "2024-01-20"},
		{id: "6", userID: "4", systemID: "2", role: viewer, granted: "2024-02-15"},
		{id: "7", userID: "1", systemID: "3", role: admin, granted: "2024-01-05", tags: strptr("env: prod\ntemporary")},
		{id: "8", userID: "5", systemID: "3", role: member, granted: "2024-01-08"},
		// Lisa Anderson's Jira grant was revoked by the completed
		// offboarding request below, so it is not seeded.
		{id: "10", userID: "9", systemID: "3", role: viewer, granted: "2024-03-15"},
		{id: "11", userID: "8", systemID: "4", role: admin, granted: "2024-01-12"},
		{id: "12", userID: "9", systemID: "4", role: member, granted: "2024-02-01"},
		{id: "13", userID: "4", systemID: "4", role: member, granted: "2024-02-20"},
		{id: "14", userID: "1", systemID: "5", granted: "2024-01-01"},
		{id: "15", userID: "2", systemID: "5", granted: "2024-01-01"},
		{id: "16", userID: "3", systemID: "5", granted: "2024-01-01"},
		{id: "17", userID: "4", systemID: "5", granted: "2024-01-01"},
		{id: "18", userID: "5", systemID: "5", granted: "2024-01-01"},
		{id: "19", userID: "6", systemID: "5", granted: "2024-01-01"},
		{id: "20", userID: "7", systemID: "5", granted: "2024-01-01"},
		{id: "21", userID: "8", systemID: "5", granted: "2024-01-01"},
		{id: "22", userID: "9", systemID: "5", granted: "2024-01-01"},
		{id: "23", userID: "10", systemID: "5", granted: "2024-01-01"},
		{id: "24", userID: "7", systemID: "6", role: admin, granted: "2024-01-18"},
		{id: "25", userID: "3", systemID: "6", role: member, granted: "2024-02-05"},
		{id: "26", userID: "6", systemID: "7", role: admin, granted: "2024-01-22"},
		{id: "27", userID: "2", systemID: "7", role: member, granted: "2024-02-10"},
		{id: "28", userID: "9", systemID: "8", role: admin, granted: "2024-01-25"},
		{id: "29", userID: "8", systemID: "8", role: member, granted: "2024-02-12"},
		{id: "30", userID: "5", systemID: "9", role: admin, granted: "2024-01-30"},
		{id: "31", userID: "1", systemID: "9", role: member, granted: "2024-02-15"},
		{id: "32", userID: "4", systemID: "10", role: admin, granted: "2024-02-01"},
		{id: "33", userID: "10", systemID: "10", role: member, granted: "2024-02-18"},
	}
	records := make([]accessDatamodel.Record, 0, len(grants))
	for _, g := range grants {
		records = append(records, accessDatamodel.Record{
			ID:          g.id,
			UserID:      g.userID,
			SystemID:    g.systemID,
			Role:        g.role,
			GrantedDate: demoDate(g.granted),
			Tags:        g.tags,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if err := db.Create(&records).Error; err != nil {
		return fmt.Errorf("failed to seed access records: %w", err)
	}

	completedAt := demoDate("2026-01-25")
	requests := []offboardingDatamodel.Request{
		{
			ID:          "1",
			UserID:      "10",
			AllSystems:  true,
			RequestedBy: "4",
			RemovalDate: demoDate("2026-02-01"),
			Status:      "pending",
			Notes:       strptr("Employee leaving the company"),
			CreatedAt:   demoDate("2026-01-15"),
		},
		{
			ID:          "2",
			UserID:      "9",
			AllSystems:  false,
			RequestedBy: "1",
			RemovalDate: demoDate("2026-01-30"),
			Status:      "pending",
			Notes:       strptr("No longer needs access to Jira and HubSpot"),
			CreatedAt:   demoDate("2026-01-20"),
		},
		{
			ID:          "3",
			UserID:      "8",
			AllSystems:  false,
			RequestedBy: "8",
			RemovalDate: demoDate("2026-01-25"),
			Status:      "completed",
			Notes:       strptr("Project completed"),
			CreatedAt:   demoDate("2026-01-10"),
			CompletedAt: &completedAt,
		},
	}
	if err := db.Create(&requests).Error; err != nil {
		return fmt.Errorf("failed to seed offboarding requests: %w", err)
	}

	requestSystems := []offboardingDatamodel.RequestSystem{
		{RequestID: "2", SystemID: "3", Position: 0},
		{RequestID: "2", SystemID: "8", Position: 1},
		{RequestID: "3", SystemID: "3", Position: 0},
	}
	if err := db.Create(&requestSystems).Error; err != nil {
		return fmt.Errorf("failed to seed offboarding request systems: %w", err)
	}

	lg.Info("seeded demo data",
		"users", len(users),
		"systems", len(systems),
		"access_records", len(records),
		"offboarding_requests", len(requests))
	return nil
}
