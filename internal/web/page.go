package web

import (
	"html/template"
	"net/http"
)

// PageConfig is the pipeline configuration shown in the chat page sidebar.
type PageConfig struct {
	Model     string
	ChunkSize int
	Overlap   int
	TopK      int
}

var pageTemplate = template.Must(template.New("chat").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Document Chat</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; display: flex; }
  .sidebar { width: 260px; background: #1e293b; padding: 1.5rem; border-right: 1px solid #334155; }
  .sidebar h2 { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.1em; color: #64748b; margin-bottom: 1rem; }
  .setting { margin-bottom: 0.75rem; font-size: 0.9rem; }
  .setting .label { color: #94a3b8; }
  .setting .value { color: #f8fafc; font-family: "SF Mono", Menlo, monospace; }
  .setting input[type=number] { width: 100%; background: #0f172a; border: 1px solid #334155; border-radius: 6px; padding: 0.35rem 0.5rem; color: #f8fafc; font-family: "SF Mono", Menlo, monospace; }
  .main { flex: 1; display: flex; flex-direction: column; max-height: 100vh; }
  h1 { font-size: 1.25rem; padding: 1rem 1.5rem; border-bottom: 1px solid #334155; color: #f8fafc; }
  #chat { flex: 1; overflow-y: auto; padding: 1.5rem; }
  .msg { max-width: 75%; margin-bottom: 1rem; padding: 0.75rem 1rem; border-radius: 10px; white-space: pre-wrap; line-height: 1.5; }
  .user { background: #0ea5e9; color: #0f172a; margin-left: auto; }
  .bot { background: #1e293b; }
  .sources { font-size: 0.75rem; color: #64748b; margin-top: 0.5rem; }
  form { display: flex; gap: 0.75rem; padding: 1rem 1.5rem; border-top: 1px solid #334155; }
  input[type=text] { flex: 1; background: #1e293b; border: 1px solid #334155; border-radius: 8px; padding: 0.75rem; color: #e2e8f0; font-size: 1rem; }
  button { background: #0ea5e9; color: #0f172a; border: none; border-radius: 8px; padding: 0.75rem 1.25rem; font-weight: 600; cursor: pointer; }
  button:disabled { opacity: 0.5; cursor: default; }
  .reindex { width: 100%; margin-top: 1rem; background: #334155; color: #e2e8f0; }
  .error { color: #f87171; }
</style>
</head>
<body>
<div class="sidebar">
  <h2>Settings</h2>
  <div class="setting"><span class="label">Model</span><br><span class="value">{{.Model}}</span></div>
  <div class="setting"><span class="label">Chunk size</span><br><input type="number" id="chunk-size" value="{{.ChunkSize}}" min="1"></div>
  <div class="setting"><span class="label">Overlap</span><br><input type="number" id="chunk-overlap" value="{{.Overlap}}" min="0"></div>
  <div class="setting"><span class="label">Top K</span><br><span class="value">{{.TopK}}</span></div>
  <button class="reindex" id="reindex">Reindex documents</button>
  <div class="setting" id="status"></div>
</div>
<div class="main">
  <h1>Document Chat</h1>
  <div id="chat"></div>
  <form id="form">
    <input type="text" id="question" placeholder="Ask about your documents..." autocomplete="off">
    <button type="submit" id="send">Send</button>
  </form>
</div>
<script>
const MAX_TURNS = 10;
const chat = document.getElementById('chat');
const form = document.getElementById('form');
const input = document.getElementById('question');
const send = document.getElementById('send');

function addMsg(cls, text) {
  const div = document.createElement('div');
  div.className = 'msg ' + cls;
  div.textContent = text;
  chat.appendChild(div);
  trimHistory();
  chat.scrollTop = chat.scrollHeight;
  return div;
}

function trimHistory() {
  const msgs = chat.querySelectorAll('.msg');
  const extra = msgs.length - MAX_TURNS * 2;
  for (let i = 0; i < extra; i++) msgs[i].remove();
}

form.addEventListener('submit', async (e) => {
  e.preventDefault();
  const question = input.value.trim();
  if (!question) return;
  input.value = '';
  send.disabled = true;
  addMsg('user', question);
  const bot = addMsg('bot', '');
  const sources = [];
  try {
    const resp = await fetch('/api/ask', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({question})
    });
    if (!resp.ok) throw new Error(await resp.text());
    const reader = resp.body.getReader();
    const decoder = new TextDecoder();
    let buf = '';
    for (;;) {
      const {done, value} = await reader.read();
      if (done) break;
      buf += decoder.decode(value, {stream: true});
      const events = buf.split('\n\n');
      buf = events.pop();
      for (const raw of events) {
        let event = 'message', data = '';
        for (const line of raw.split('\n')) {
          if (line.startsWith('event: ')) event = line.slice(7);
          else if (line.startsWith('data: ')) data = line.slice(6);
        }
        if (!data) continue;
        const payload = JSON.parse(data);
        if (event === 'token') {
          bot.textContent += payload;
          chat.scrollTop = chat.scrollHeight;
        } else if (event === 'source') {
          if (!sources.includes(payload.source)) sources.push(payload.source);
        } else if (event === 'error') {
          bot.classList.add('error');
          bot.textContent = payload;
        } else if (event === 'done' && sources.length > 0) {
          const div = document.createElement('div');
          div.className = 'sources';
          div.textContent = 'Sources: ' + sources.join(', ');
          bot.appendChild(div);
        }
      }
    }
  } catch (err) {
    bot.classList.add('error');
    bot.textContent = 'Request failed: ' + err.message;
  } finally {
    send.disabled = false;
    input.focus();
  }
});

document.getElementById('reindex').addEventListener('click', async () => {
  const status = document.getElementById('status');
  status.textContent = 'Reindexing...';
  try {
    const body = JSON.stringify({
      chunk_size: parseInt(document.getElementById('chunk-size').value, 10),
      chunk_overlap: parseInt(document.getElementById('chunk-overlap').value, 10)
    });
    const resp = await fetch('/api/reindex', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body
    });
    const result = await resp.json();
    if (!resp.ok) throw new Error(result.error || resp.statusText);
    status.textContent = 'Indexed ' + result.successful_docs + ' docs, ' + result.total_chunks + ' chunks';
  } catch (err) {
    status.textContent = 'Reindex failed: ' + err.message;
  }
});
</script>
</body>
</html>`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, s.page); err != nil {
		s.logger.Error("Render chat page", "error", err)
	}
}
