// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
)

func main() {
	catalogServiceURL, _ := url.Parse(getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"))
	storefrontServiceURL, _ := url.Parse(getEnv("STOREFRONT_SERVICE_URL", "http://localhost:8082"))

	catalogProxy := httputil.NewSingleHostReverseProxy(catalogServiceURL)
	storefrontProxy := httputil.NewSingleHostReverseProxy(storefrontServiceURL)

	http.Handle("/api/v1/catalog/", http.StripPrefix("/api/v1/catalog", catalogProxy))
	http.Handle("/api/v1/storefront/", http.StripPrefix("/api/v1/storefront", storefrontProxy))

	port := getEnv("PORT", "8080")
	log.Printf("API Gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
