package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"finetrack/internal/adapter/api"
	"finetrack/internal/adapter/api/handler"
	apimiddleware "finetrack/internal/adapter/api/middleware"
	"finetrack/internal/adapter/api/router"
	"finetrack/internal/adapter/repository"
	"finetrack/internal/domain/service"
	"finetrack/internal/infrastructure/firebase"
	"finetrack/internal/usecase"
	"finetrack/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	// Service account JSON in the environment wins (production);
	// fall back to a file path for local development.
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./serviceAccountKey.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	violationRepo := repository.NewFirestoreViolationRepository(firestoreClient)
	fineRepo := repository.NewFirestoreFineRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	gateway := service.NewStripeGateway(cfg.GatewaySecretKey, cfg.GatewayWebhookSecret, cfg.GatewayBaseURL)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, firebaseAuthClient)
	violationUseCase := usecase.NewViolationUseCase(violationRepo)
	fineUseCase := usecase.NewFineUseCase(fineRepo, violationRepo, userRepo, cfg.FineDueDays)
	paymentUseCase := usecase.NewPaymentUseCase(fineRepo, violationRepo, userRepo, gateway)

	handler.Setup(authUseCase, userUseCase, violationUseCase, fineUseCase, paymentUseCase)
	handler.SetupHealthHandler()

	devTokenSecret := ""
	if cfg.Environment == "development" {
		devTokenSecret = cfg.DevTokenSecret
		handler.SetupDevTokenHandler(userRepo, devTokenSecret)
	}

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient, devTokenSecret)
	roleMiddleware := apimiddleware.NewRoleMiddleware(userRepo)

	router.Setup(e, authMiddleware, roleMiddleware)
	router.SetupDevRouter(e, cfg.Environment)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
