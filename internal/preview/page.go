package preview

import "html/template"

type pageData struct {
	Title    string
	ThemeCSS template.CSS
	Content  template.HTML
	Words    int
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/highlight.css">
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 50em; margin: 2em auto; padding: 0 1em; line-height: 1.5; }
pre { padding: 0.8em; overflow-x: auto; }
table { border-collapse: collapse; }
td, th { border: 1px solid #8888; padding: 0.2em 0.6em; }
#status { position: fixed; bottom: 0; right: 0; padding: 0.2em 0.8em; font-size: 0.8em; opacity: 0.7; }
#error { color: #c00; }
</style>
<style id="theme">{{.ThemeCSS}}</style>
</head>
<body>
<div id="content">{{.Content}}</div>
<div id="status">Words: <span id="words">{{.Words}}</span> <span id="error"></span></div>
<script>
(function () {
  var content = document.getElementById("content");
  var words = document.getElementById("words");
  var error = document.getElementById("error");
  var themeStyle = document.getElementById("theme");

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      content.innerHTML = msg.html;
      words.textContent = msg.words;
      error.textContent = msg.error || "";
      if (msg.theme_css) {
        themeStyle.textContent = msg.theme_css;
      }
    };
    ws.onclose = function () {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
</script>
</body>
</html>
`))
