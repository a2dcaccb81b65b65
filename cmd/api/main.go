package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "warehouse-facility/internal/adapter/http"
	idemp "warehouse-facility/internal/adapter/middleware"
	"warehouse-facility/internal/adapter/repository/mysql"
	"warehouse-facility/internal/config"
	"warehouse-facility/internal/infrastructure/cache"
	"warehouse-facility/internal/infrastructure/db"
	facilityUC "warehouse-facility/internal/usecase/facility"
	pledgeUC "warehouse-facility/internal/usecase/pledge"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	facilityRepo := mysql.NewFacilityRepository(gdb)
	pledgeRepo := mysql.NewPledgeRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	facilityHandler := httpadp.NewFacilityHandler(facilityUC.NewUsecase(facilityRepo, uow))
	pledgeHandler := httpadp.NewPledgeHandler(pledgeUC.NewUsecase(pledgeRepo, uow))
	h := httpadp.NewHandler()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(idemp.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.POST("/facility", facilityHandler.Instantiate)
	e.GET("/facility", facilityHandler.GetFacilityInfo)
	e.GET("/contract-info", facilityHandler.GetContractInfo)

	e.POST("/pledges", pledgeHandler.ProposePledge)
	e.POST("/pledges/:pledge_id/accept", pledgeHandler.AcceptPledge)
	e.POST("/pledges/:pledge_id/cancel", pledgeHandler.CancelPledge)
	e.POST("/pledges/:pledge_id/execute", pledgeHandler.ExecutePledge)
	e.POST("/pledges/:pledge_id/close", pledgeHandler.ClosePledge)
	e.GET("/pledges", pledgeHandler.ListPledges)
	e.GET("/pledges/ids", pledgeHandler.ListPledgeIDs)
	e.GET("/pledges/:pledge_id", pledgeHandler.GetPledge)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
