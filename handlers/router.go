package handlers

import (
	"techStore/metrics"

	"github.com/gorilla/mux"
)

func NewRouter(ha *Handler, m *metrics.Metrics) *mux.Router {
	router := mux.NewRouter()
	router.Use(ha.ErrorHandleMiddleware)
	router.Use(ha.RequestLogMiddleware)
	router.Use(m.Middleware)

	router.HandleFunc("/", ha.Welcome).Methods("GET")

	router.HandleFunc("/products", ha.GetProducts).Methods("GET")
	router.HandleFunc("/products", ha.CreateProduct).Methods("POST")
	router.HandleFunc("/products/{id:[0-9]+}", ha.GetProduct).Methods("GET")
	router.HandleFunc("/products/{id:[0-9]+}", ha.RemoveProduct).Methods("DELETE")

	router.HandleFunc("/categories", ha.GetAllCategories).Methods("GET")
	router.HandleFunc("/categories/{name}", ha.GetCategoryWithProducts).Methods("GET")

	router.HandleFunc("/cart", ha.GetCart).Methods("GET")
	router.HandleFunc("/cart", ha.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/checkout", ha.Checkout).Methods("POST")
	router.HandleFunc("/cart/{id:[0-9]+}", ha.AddToCart).Methods("POST")
	router.HandleFunc("/cart/{id:[0-9]+}", ha.DeleteFromCart).Methods("DELETE")
	router.HandleFunc("/cart/{id:[0-9]+}/increase", ha.IncreaseQty).Methods("POST")
	router.HandleFunc("/cart/{id:[0-9]+}/decrease", ha.DecreaseQty).Methods("POST")

	router.HandleFunc("/receipt", ha.GetReceipt).Methods("GET")
	router.HandleFunc("/receipt", ha.DismissReceipt).Methods("DELETE")

	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods("GET")
	}
	return router
}
