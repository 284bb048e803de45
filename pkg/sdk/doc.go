// Package jobreco embeds the TF-IDF job recommender in a Go program.
//
// The client resolves the artifact files the same way the HTTP service does,
// builds the vectorizer and matrix from the jobs table when they are missing,
// and optionally caches results in Redis.
//
//	client, _ := jobreco.New(ctx, jobreco.WithArtifactsDir("./artifacts"))
//	defer client.Close()
//	matches, _ := client.Recommend(ctx, "python backend developer with AWS", 5)
//	for _, m := range matches {
//	    fmt.Println(m.JobTitle, m.Score)
//	}
//
// Artifacts can also be prepared ahead of time:
//
//	_ = jobreco.Build("data/jobs_processed.csv", "artifacts")
package jobreco
