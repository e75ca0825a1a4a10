// Package tmdb provides a client for The Movie Database (TMDB) v3 API.
//
// The client is intentionally small: it searches movies by free text and
// builds poster image URLs. Requests carry a static bearer token supplied at
// construction time; the token is never refreshed or validated locally.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(
//		os.Getenv("TMDB_API_TOKEN"),
//		logger,
//		tmdb.WithLanguage("es-ES"),
//		tmdb.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Search(ctx, tmdb.SearchQuery{Text: "batman"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, movie := range result.Items {
//		fmt.Println(movie.Title, tmdb.BuildImageURL(movie.PosterPath, tmdb.ImageSizeW185))
//	}
//
// # Error Handling
//
// The client does not classify failures. Non-2xx responses are returned as
// *APIError, network failures are wrapped around the underlying transport
// error, and malformed bodies surface as decode errors. Callers decide what
// each failure means:
//
//	var apiErr *tmdb.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// Handle missing or invalid token
//	}
package tmdb
