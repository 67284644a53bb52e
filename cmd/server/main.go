package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"

	"fleetrental/internal/api"
	"fleetrental/internal/auth"
	"fleetrental/internal/repository"
	"fleetrental/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	rentalRepo := repository.NewRentalRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	jobRepo := repository.NewJobRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)

	notifySvc := service.NewNotifyService()
	bookingSvc := service.NewBookingService(bookingRepo, rentalRepo, vehicleRepo, notifySvc,
		os.Getenv("LOWERCASE_CUSTOMER_EMAILS") == "true")
	rentalSvc := service.NewRentalService(rentalRepo, bookingRepo)
	vehicleSvc := service.NewVehicleService(vehicleRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	stripeSvc := service.NewStripeService()
	reconcileSvc := service.NewReconcileService(paymentRepo, rentalRepo, notifySvc)
	jobSvc := service.NewJobService(jobRepo)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)

	bookingHandler := api.NewBookingHandler(bookingSvc, rentalSvc)
	rentalHandler := api.NewRentalHandler(rentalSvc)
	vehicleHandler := api.NewVehicleHandler(vehicleSvc)
	customerHandler := api.NewCustomerHandler(customerSvc)
	stripeHandler := api.NewStripeHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), stripeSvc, reconcileSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	bookingLimiter := auth.NewRateLimiter(auth.RateLimitPolicy{Window: time.Minute, Limit: 10})
	loginLimiter := auth.NewRateLimiter(auth.RateLimitPolicy{Window: time.Minute, Limit: 5})

	r := mux.NewRouter()

	// Public endpoints
	r.Handle("/api/bookings", bookingLimiter.Middleware(http.HandlerFunc(bookingHandler.CreateBooking))).Methods("POST")
	r.HandleFunc("/api/vehicles", vehicleHandler.ListVehicles).Methods("GET")
	r.HandleFunc("/api/vehicles/search", bookingHandler.SearchVehicles).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}", vehicleHandler.GetVehicle).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}/availability", bookingHandler.CheckAvailability).Methods("GET")
	r.HandleFunc("/api/vehicles/{id}/conflicts", bookingHandler.VehicleConflicts).Methods("GET")
	r.HandleFunc("/api/payments/intent", stripeHandler.CreatePaymentIntent).Methods("POST")
	r.HandleFunc("/api/payments/confirm", stripeHandler.ConfirmPayment).Methods("POST")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")
	r.Handle("/admin/login", loginLimiter.Middleware(http.HandlerFunc(adminAuthHandler.Login))).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/register", adminAuthHandler.CreateAdmin).Methods("POST")
	admin.HandleFunc("/rentals", rentalHandler.ListRentals).Methods("GET")
	admin.HandleFunc("/rentals/{id}", rentalHandler.GetRental).Methods("GET")
	admin.HandleFunc("/rentals/{id}", rentalHandler.UpdateRental).Methods("PUT")
	admin.HandleFunc("/rentals/{id}/status", rentalHandler.UpdateRentalStatus).Methods("PUT")
	admin.HandleFunc("/rentals/{id}", rentalHandler.DeleteRental).Methods("DELETE")
	admin.HandleFunc("/vehicles", vehicleHandler.CreateVehicle).Methods("POST")
	admin.HandleFunc("/vehicles/{id}", vehicleHandler.UpdateVehicle).Methods("PUT")
	admin.HandleFunc("/vehicles/{id}", vehicleHandler.DeleteVehicle).Methods("DELETE")
	admin.HandleFunc("/customers", customerHandler.ListCustomers).Methods("GET")
	admin.HandleFunc("/customers/{id}", customerHandler.UpdateCustomer).Methods("PUT")
	admin.HandleFunc("/customers/{id}", customerHandler.DeleteCustomer).Methods("DELETE")
	admin.HandleFunc("/payments/refund", stripeHandler.RefundPayment).Methods("POST")

	c := cron.New()
	c.AddFunc("@every 1h", func() {
		ctx := context.Background()
		if err := jobSvc.ActivateDueRentals(ctx); err != nil {
			log.Println(err)
		}
		if err := jobSvc.CompleteFinishedRentals(ctx); err != nil {
			log.Println(err)
		}
	})
	c.AddFunc("@every 6h", func() {
		if err := jobSvc.DeleteStaleUnpaid(context.Background()); err != nil {
			log.Println(err)
		}
	})
	c.Start()
	defer c.Stop()

	allowedOrigin := os.Getenv("CORS_ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{allowedOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Stripe-Signature"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(r)))
}
