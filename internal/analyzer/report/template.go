package report

const reportHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Reddit Stock Analysis: {{.Symbol}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; }
.metric { margin: 20px 0; padding: 15px; background: #f5f5f5; border-radius: 5px; }
.post { margin: 10px 0; padding: 10px; border: 1px solid #ddd; }
.positive { color: green; }
.negative { color: red; }
</style>
</head>
<body>
<h1>Stock Analysis Report: {{.Symbol}}</h1>
<p class="generated">Generated {{.GeneratedAt}}</p>

<div class="metric" id="summary">
<h2>Recommendation: <span class="recommendation">{{.Recommendation}}</span></h2>
<p class="rationale">{{.Rationale}}</p>
<ul>
<li>Total posts: <span class="total-posts">{{.TotalPosts}}</span></li>
<li>Due diligence posts: <span class="dd-posts">{{.DeepAnalysisPosts}}</span></li>
<li>Sentiment: <span class="{{sentimentClass .Sentiment}} sentiment">{{printf "%.2f" .Sentiment}}</span></li>
<li>Confidence: <span class="confidence">{{printf "%.0f" (percent .Confidence)}}%</span></li>
</ul>
{{- if .SourceCounts}}
<h3>Source breakdown</h3>
<ul class="sources">
{{- range .SourceCounts}}
<li>{{.Name}}: {{.Count}} posts</li>
{{- end}}
</ul>
{{- end}}
{{- if .FailedSources}}
<p class="failed-sources">Unavailable sources: {{join .FailedSources ", "}}</p>
{{- end}}
</div>

<div class="metric" id="top-posts">
<h2>Top Reddit Posts</h2>
{{- range .Posts}}
<div class="post">
<h3>{{if .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</h3>
<p>Score: {{.Score}} | Comments: {{.NumComments}}</p>
<p>Subreddit: r/{{.Source}}{{if .Created}} | {{.Created}}{{end}}</p>
<p>Sentiment: <span class="{{sentimentClass .Sentiment}}">{{printf "%.2f" .Sentiment}}</span></p>
</div>
{{- else}}
<p class="empty">No posts found.</p>
{{- end}}
</div>
</body>
</html>
`
