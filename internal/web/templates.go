package web

const layoutTemplate = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Health &amp; Wellness Coach</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; background: #f5f7f6; color: #1f2d2a; }
        .layout { display: flex; min-height: 100vh; }
        .sidebar { width: 260px; background: #e6efec; padding: 20px; box-sizing: border-box; }
        .sidebar h2 { font-size: 1.1em; margin-top: 0; }
        .sidebar form { margin: 6px 0; }
        .sidebar button { width: 100%; text-align: left; padding: 8px; border: 1px solid #c5d6d0; background: white; border-radius: 4px; cursor: pointer; }
        .main { flex: 1; padding: 24px; max-width: 900px; }
        .notice { background: #fff8e1; border: 1px solid #ffe08a; padding: 10px; border-radius: 4px; margin-bottom: 16px; }
        .turn { padding: 12px 16px; border-radius: 8px; margin-bottom: 12px; white-space: pre-wrap; }
        .turn.user { background: #dcefe8; }
        .turn.assistant { background: white; border: 1px solid #e0e0e0; }
        .resources { margin-top: 10px; white-space: normal; }
        .resources img { width: 20px; height: 20px; vertical-align: middle; margin-right: 6px; }
        .resources li { list-style: none; margin: 4px 0; }
        textarea { width: 100%; min-height: 70px; box-sizing: border-box; }
        .actions { margin-top: 16px; display: flex; gap: 12px; flex-wrap: wrap; }
    </style>
</head>
<body>
{{end}}`

const chatTemplate = `{{template "head" .}}
<div class="layout">
    <aside class="sidebar">
        <h2>Saved Chats</h2>
        <form method="post" action="/new"><button type="submit">➕ New Chat</button></form>
        <form method="post" action="/save"><button type="submit">💾 Save Chat</button></form>
        {{range $i, $c := .Saved}}
        <form method="post" action="/load">
            <input type="hidden" name="index" value="{{$i}}">
            <button type="submit">Chat {{inc $i}}: {{$c.Title}}</button>
        </form>
        {{else}}
        <p>No saved chats yet.</p>
        {{end}}
        <p><a href="/quiz">📝 Take the quiz</a></p>
    </aside>
    <main class="main">
        <h1>🌿 Health &amp; Wellness Coach</h1>
        {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}

        {{range .Turns}}
        <div class="turn {{if isUser .Role}}user{{else}}assistant{{end}}">
            <strong>{{if isUser .Role}}You{{else}}Coach{{end}}:</strong> {{.Content}}
            {{with .Resources}}
            <div class="resources">
                {{if .Articles}}
                <strong>Articles</strong>
                <ul>{{range .Articles}}<li><img src="{{iconFor .Link}}" alt=""><a href="{{.Link}}" target="_blank" rel="noopener">{{.Title}}</a></li>{{end}}</ul>
                {{end}}
                {{if .Videos}}
                <strong>Videos</strong>
                <ul>{{range .Videos}}<li><img src="{{videoIcon}}" alt=""><a href="{{.Link}}" target="_blank" rel="noopener">{{.Title}}</a></li>{{end}}</ul>
                {{end}}
            </div>
            {{end}}
        </div>
        {{else}}
        <p>Ask me anything about sleep, nutrition, exercise or stress.</p>
        {{end}}

        <form method="post" action="/chat">
            <textarea name="message" placeholder="Type your message..."></textarea>
            <button type="submit">Send</button>
        </form>

        <div class="actions">
            <form method="post" action="/upload" enctype="multipart/form-data">
                <label>Upload a document (PDF, DOCX, TXT):
                    <input type="file" name="file" accept=".pdf,.docx,.txt">
                </label>
                <button type="submit">Analyze</button>
            </form>
        </div>
    </main>
</div>
</body>
</html>`

const quizTemplate = `{{template "head" .}}
<div class="layout">
    <main class="main">
        <h1>📝 Quiz</h1>
        <p><a href="/">← Back to chat</a></p>
        {{if .Scored}}<div class="notice">Your score: {{.Score}}/{{len .Items}}</div>{{end}}
        {{if .Items}}
        <form method="post" action="/quiz">
            {{range $i, $it := .Items}}
            <div class="turn assistant">
                <p>{{inc $i}}. {{$it.Question}}</p>
                {{range $it.Options}}
                <label><input type="radio" name="q{{$i}}" value="{{.}}"> {{.}}</label>
                {{end}}
            </div>
            {{end}}
            <button type="submit">Submit answers</button>
        </form>
        {{else}}
        <p>Chat with the coach first to get quiz questions.</p>
        {{end}}
    </main>
</div>
</body>
</html>`
