package connection

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"kanban/blob"
	"kanban/controller/attachment"
	"kanban/controller/auth"
	"kanban/controller/board"
	"kanban/controller/checklist"
	"kanban/controller/task"
	"kanban/controller/team"
	"kanban/middleware"
)

func StartServer() {
	// Missing .env is fine; real deployments set the environment directly.
	godotenv.Load()

	router := gin.Default()

	db, err := DBConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	store, err := blob.NewDiskStore(uploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	router.Use(cors.Default())
	router.Use(middleware.RequestLogger())
	router.Static("/uploads", store.Dir())

	auth.AuthController(router, db)

	team.TeamController(router, db)
	board.BoardController(router, db)

	task.TaskController(router, db)
	checklist.ChecklistController(router, db)
	attachment.AttachmentController(router, db, store)

	router.Run()
}
