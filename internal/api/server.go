package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/config"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/policy"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	adminSvc *service.AdminService
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	electionSvc := s.initElectionService(db)

	authHandler := s.initAuthHandler(db)
	studentHandler := s.initStudentHandler(db)
	electionHandler := v1.NewElectionHandler(electionSvc)
	settingsHandler := s.initDisplaySettingsHandler(db, electionSvc)
	resultsHandler := s.initResultsHandler(db, electionSvc)
	voteHandler := s.initVoteHandler(db)
	adminHandler := s.initAdminHandler(db)
	s.MountHandlers(authHandler, studentHandler, electionHandler, settingsHandler, resultsHandler, voteHandler, adminHandler)

	return s
}

// AdminService exposes the admin service for startup seeding.
func (s *Server) AdminService() *service.AdminService {
	return s.adminSvc
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	adminDAO := dao.NewAdminDAO(db)
	repo := repository.NewAdminRepository(adminDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initStudentHandler(db *gorm.DB) *v1.StudentHandler {
	studentDAO := dao.NewStudentDAO(db)
	voteDAO := dao.NewVoteDAO(db)
	repo := repository.NewStudentRepository(studentDAO, voteDAO)
	svc := service.NewStudentService(repo)
	handler := v1.NewStudentHandler(svc)

	return handler
}

func (s *Server) initElectionService(db *gorm.DB) *service.ElectionService {
	electionDAO := dao.NewElectionDAO(db)
	repo := repository.NewElectionRepository(electionDAO)

	return service.NewElectionService(repo)
}

func (s *Server) initDisplaySettingsHandler(db *gorm.DB, electionSvc *service.ElectionService) *v1.DisplaySettingsHandler {
	settingsDAO := dao.NewDisplaySettingsDAO(db)
	repo := repository.NewDisplaySettingsRepository(settingsDAO)
	svc := service.NewDisplaySettingsService(repo)
	handler := v1.NewDisplaySettingsHandler(svc, electionSvc)

	return handler
}

func (s *Server) initResultsHandler(db *gorm.DB, electionSvc *service.ElectionService) *v1.ResultsHandler {
	electionRepo := repository.NewElectionRepository(dao.NewElectionDAO(db))
	settingsRepo := repository.NewDisplaySettingsRepository(dao.NewDisplaySettingsDAO(db))
	voteRepo := repository.NewVoteRepository(dao.NewVoteDAO(db))
	svc := service.NewResultsService(electionRepo, settingsRepo, voteRepo)
	handler := v1.NewResultsHandler(svc, electionSvc)

	return handler
}

func (s *Server) initVoteHandler(db *gorm.DB) *v1.VoteHandler {
	studentRepo := repository.NewStudentRepository(dao.NewStudentDAO(db), dao.NewVoteDAO(db))
	electionRepo := repository.NewElectionRepository(dao.NewElectionDAO(db))
	voteRepo := repository.NewVoteRepository(dao.NewVoteDAO(db))
	svc := service.NewVoteService(studentRepo, electionRepo, voteRepo)
	handler := v1.NewVoteHandler(svc)

	return handler
}

func (s *Server) initAdminHandler(db *gorm.DB) *v1.AdminHandler {
	adminDAO := dao.NewAdminDAO(db)
	repo := repository.NewAdminRepository(adminDAO)
	s.adminSvc = service.NewAdminService(repo)
	handler := v1.NewAdminHandler(s.adminSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	studentHandler *v1.StudentHandler,
	electionHandler *v1.ElectionHandler,
	settingsHandler *v1.DisplaySettingsHandler,
	resultsHandler *v1.ResultsHandler,
	voteHandler *v1.VoteHandler,
	adminHandler *v1.AdminHandler,
) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// The voting surface is public; students have no accounts.
	public := s.Router.Group(basePath)
	{
		public.POST("/elections/:electionID/vote", voteHandler.HandleCastVote)
		public.GET("/votes/verify/:token", voteHandler.HandleVerifyToken)
		public.GET("/elections/:electionID/voted/:studentID", voteHandler.HandleHasVoted)
		public.GET("/public/elections/:electionID/results", resultsHandler.HandleGetPublicResults)
	}

	students := s.Router.Group(basePath, verifyJWT, middleware.RequirePage(policy.PageStudents))
	{
		students.POST("/students", studentHandler.HandleCreateStudent)
		students.GET("/students", studentHandler.HandleListStudents)
		students.GET("/students/stats", studentHandler.HandleGetStudentStats)
		students.GET("/students/classrooms", studentHandler.HandleGetClassrooms)
		students.GET("/students/:studentID", studentHandler.HandleGetStudent)
		students.PUT("/students/:studentID", studentHandler.HandleUpdateStudent)
		students.DELETE("/students/:studentID", studentHandler.HandleDeleteStudent)
		students.POST("/students/:studentID/approve", studentHandler.HandleApproveVoting)
		students.POST("/students/:studentID/revoke", studentHandler.HandleRevokeVoting)
		students.POST("/students/voting-rights/approve", studentHandler.HandleBulkApproveVoting)
		students.POST("/students/voting-rights/revoke", studentHandler.HandleBulkRevokeVoting)
		students.POST("/students/import", studentHandler.HandleImportStudents)
		students.DELETE("/students", studentHandler.HandleResetStudents)
	}

	elections := s.Router.Group(basePath, verifyJWT, middleware.RequirePage(policy.PageElections))
	{
		elections.POST("/elections", electionHandler.HandleCreateElection)
		elections.GET("/elections", electionHandler.HandleListElections)
		elections.GET("/elections/:electionID", electionHandler.HandleGetElection)
		elections.PUT("/elections/:electionID", electionHandler.HandleUpdateElection)
		elections.DELETE("/elections/:electionID", electionHandler.HandleDeleteElection)
		elections.POST("/elections/:electionID/open", electionHandler.HandleOpenElection)
		elections.POST("/elections/:electionID/close", electionHandler.HandleCloseElection)

		elections.GET("/elections/:electionID/display-settings", settingsHandler.HandleGetDisplaySettings)
		elections.PUT("/elections/:electionID/display-settings", settingsHandler.HandleUpdateDisplaySettings)
		elections.PUT("/elections/:electionID/display-settings/positions/:positionID", settingsHandler.HandleUpdatePositionConfig)
		elections.POST("/elections/:electionID/display-settings/publish", settingsHandler.HandlePublishResults)
		elections.POST("/elections/:electionID/display-settings/unpublish", settingsHandler.HandleUnpublishResults)
		elections.POST("/elections/:electionID/display-settings/apply-global", settingsHandler.HandleApplyGlobalSettings)
	}

	results := s.Router.Group(basePath, verifyJWT, middleware.RequirePage(policy.PageResults))
	{
		results.GET("/elections/:electionID/results", resultsHandler.HandleGetAdminResults)
	}

	// Admin management is gated in the service per actor level.
	admins := s.Router.Group(basePath, verifyJWT)
	{
		admins.GET("/admins", adminHandler.HandleListAdmins)
		admins.POST("/admins", adminHandler.HandleCreateAdmin)
		admins.PUT("/admins/:adminID", adminHandler.HandleUpdateAdmin)
		admins.DELETE("/admins/:adminID", adminHandler.HandleDeleteAdmin)
		admins.GET("/admins/creatable-levels", adminHandler.HandleCreatableLevels)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}
