// Command pr-comments exports the review discussion of every pull request in a
// GitHub repository as comment counts, a JSON comment list, or a CSV/JSON
// export.
//
// Required environment variables:
//
//	GITHUB_TOKEN       GitHub API token (falls back to gh CLI credentials)
//	GITHUB_REPOSITORY  repository in owner/repo form (or --repo)
package main

func main() {
	Execute()
}
